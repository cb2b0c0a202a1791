package checkouts

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	checkoutRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/checkout"
	spaceClient "github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/internal/service/checkouts/models"
)

// Service сервис для чтения чекаутов
type Service struct {
	checkoutRepo CheckoutRepository
	bookingRepo  BookingRepository
	spaceClient  SpaceServiceClient
	logger       Logger
}

// NewService создает новый экземпляр сервиса чекаутов
func NewService(
	checkoutRepo CheckoutRepository,
	bookingRepo BookingRepository,
	spaceClient SpaceServiceClient,
	logger Logger,
) *Service {
	return &Service{
		checkoutRepo: checkoutRepo,
		bookingRepo:  bookingRepo,
		spaceClient:  spaceClient,
		logger:       logger,
	}
}

// GetByID получает чекаут со всеми его бронированиями
// Проверяет права доступа - пользователь может видеть только свой чекаут
// или если он является менеджером пространства
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.CheckoutResponse, error) {
	s.logger.Info("GetByID: fetching checkout id=%d for user=%d", id, userID)

	checkout, err := s.checkoutRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, checkoutRepo.ErrCheckoutNotFound) {
			s.logger.Warn("GetByID: checkout id=%d not found", id)
			return nil, ErrCheckoutNotFound
		}
		s.logger.Error("GetByID: repository error for checkout id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, checkout, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to checkout id=%d", userID, id)
		return nil, err
	}

	bookings, err := s.bookingRepo.GetByCheckoutID(ctx, id)
	if err != nil {
		s.logger.Error("GetByID: failed to get bookings for checkout id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - failed to get bookings: %v", ErrInternal, err)
	}

	s.logger.Info("GetByID: successfully fetched checkout id=%d with %d bookings", id, len(bookings))
	return models.FromDomainCheckout(checkout, bookings), nil
}

// checkUserAccess проверяет, что пользователь имеет доступ к чекауту
func (s *Service) checkUserAccess(ctx context.Context, checkout *domain.Checkout, userID int64) error {
	// Если пользователь владелец чекаута - доступ разрешён
	if checkout.UserID == userID {
		return nil
	}

	// Проверяем, является ли пользователь менеджером пространства
	space, err := s.spaceClient.GetSpace(ctx, checkout.SpaceID)
	if err != nil {
		if errors.Is(err, spaceClient.ErrSpaceNotFound) {
			return ErrAccessDenied
		}
		s.logger.Error("checkUserAccess: failed to get space id=%d: %v", checkout.SpaceID, err)
		return fmt.Errorf("%w: checkUserAccess - failed to get space: %v", ErrInternal, err)
	}

	for _, managerID := range space.ManagerIDs {
		if managerID == userID {
			return nil
		}
	}

	return ErrAccessDenied
}
