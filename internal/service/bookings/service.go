package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/booking"
	spaceClient "github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

// Service сервис для работы с бронированиями
type Service struct {
	bookingRepo  BookingRepository
	checkoutRepo CheckoutRepository
	spaceClient  SpaceServiceClient
	txManager    TransactionManager
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	checkoutRepo CheckoutRepository,
	spaceClient SpaceServiceClient,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		checkoutRepo: checkoutRepo,
		spaceClient:  spaceClient,
		txManager:    txManager,
		logger:       logger,
	}
}

// GetByID получает бронирование по ID
// Проверяет права доступа - пользователь может видеть только своё бронирование
// или если он является менеджером пространства
func (s *Service) GetByID(ctx context.Context, id int64, userID int64) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%d for user=%d", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%d not found", id)
			return nil, ErrBookingNotFound
		}
		s.logger.Error("GetByID: repository error for booking id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	// Проверяем права доступа
	if err := s.checkUserAccess(ctx, booking, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%d to booking id=%d", userID, id)
		return nil, err
	}

	s.logger.Info("GetByID: successfully fetched booking id=%d", id)
	return models.FromDomainBooking(booking), nil
}

// GetUserBookings получает историю бронирований пользователя
// Опционально фильтрует по статусу
func (s *Service) GetUserBookings(ctx context.Context, req *models.GetUserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("GetUserBookings: fetching bookings for user=%d, status=%v", req.UserID, req.Status)

	// Конвертируем статус из строки в domain.BookingStatus
	var domainStatus *domain.BookingStatus
	if req.Status != nil {
		status, err := models.ToDomainBookingStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserBookings: invalid status=%s for user=%d", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		domainStatus = &status
	}

	bookings, err := s.bookingRepo.GetByUserID(ctx, req.UserID, domainStatus)
	if err != nil {
		s.logger.Error("GetUserBookings: repository error for user=%d: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserBookings: successfully fetched %d bookings for user=%d", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

// GetSpaceBookings получает бронирования пространства с гибкой фильтрацией
// Поддерживает фильтрацию по периоду, статусу и включению неактивных бронирований
// Доступно только менеджерам пространства
//
// Примеры использования:
// - Все активные бронирования: GetSpaceBookings(ctx, &GetSpaceBookingsRequest{SpaceID: 123, UserID: 456})
// - Бронирования на дату: StartDate и EndDate указывают на одну дату
// - Бронирования за период: StartDate и EndDate указывают на разные даты
// - Только подтвержденные: указать Status = "confirmed"
// - Включая отменённые: IncludeInactive = true
func (s *Service) GetSpaceBookings(ctx context.Context, req *models.GetSpaceBookingsRequest) (*models.BookingListResponse, error) {
	// Логируем запрос с деталями фильтрации
	logMsg := fmt.Sprintf("GetSpaceBookings: fetching bookings for space=%d, user=%d", req.SpaceID, req.UserID)
	if req.StartDate != nil && req.EndDate != nil {
		logMsg += fmt.Sprintf(", period=%s to %s", req.StartDate.Format(domain.DateFormat), req.EndDate.Format(domain.DateFormat))
	}
	if req.Status != nil {
		logMsg += fmt.Sprintf(", status=%s", *req.Status)
	}
	if req.IncludeInactive {
		logMsg += ", includeInactive=true"
	}
	s.logger.Info(logMsg)

	// Проверяем права доступа менеджера
	if err := s.checkManagerAccess(ctx, req.SpaceID, req.UserID); err != nil {
		return nil, err
	}

	// Конвертируем request в domain фильтр
	filter, err := req.ToDomainFilter()
	if err != nil {
		s.logger.Warn("GetSpaceBookings: invalid filter for space=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: invalid filter", ErrInvalidInput)
	}

	// Получаем бронирования с фильтрацией
	bookings, err := s.bookingRepo.GetBySpaceWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetSpaceBookings: repository error for space=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: GetSpaceBookings - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetSpaceBookings: successfully fetched %d bookings for space=%d", len(bookings), req.SpaceID)
	return models.FromDomainBookingList(bookings), nil
}

// Cancel отменяет бронирование
// Пользователь может отменить только своё бронирование (cancelled_by_user)
// Менеджер может отменить любое бронирование пространства (cancelled_by_space)
// Отмена снимает занятость мест, но не пересчитывает суммы оплаченного чекаута
func (s *Service) Cancel(ctx context.Context, bookingID int64, req *models.CancelBookingRequest) error {
	s.logger.Info("Cancel: cancelling booking id=%d by user=%d", bookingID, req.UserID)

	if len(req.CancellationReason) > domain.MaxCancellationReasonLength {
		s.logger.Warn("Cancel: cancellation reason too long for booking id=%d", bookingID)
		return fmt.Errorf("%w: cancellation reason too long", ErrInvalidInput)
	}

	// Получаем бронирование
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("Cancel: booking id=%d not found", bookingID)
			return ErrBookingNotFound
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	// Проверяем, можно ли отменить бронирование
	if !booking.CanBeCancelled() {
		s.logger.Warn("Cancel: booking id=%d cannot be cancelled, status=%s", bookingID, booking.Status)
		return ErrCannotCancel
	}

	// Определяем статус отмены в зависимости от прав доступа
	var cancelStatus domain.BookingStatus

	// Проверяем, является ли пользователь владельцем бронирования
	if booking.UserID == req.UserID {
		cancelStatus = domain.StatusCancelledByUser
	} else {
		// Проверяем, является ли пользователь менеджером пространства
		if err := s.checkManagerAccess(ctx, booking.SpaceID, req.UserID); err != nil {
			s.logger.Warn("Cancel: access denied for user=%d to cancel booking id=%d", req.UserID, bookingID)
			return ErrAccessDenied
		}
		cancelStatus = domain.StatusCancelledBySpace
	}

	// Отменяем бронирование. Статус проверяется ещё раз на уровне UPDATE:
	// если бронирование успели погасить или отменить после чтения выше,
	// запрос не затронет ни одной строки
	if err := s.bookingRepo.Cancel(ctx, bookingID, cancelStatus, req.CancellationReason); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Cancel: booking id=%d status changed concurrently, cancellation skipped", bookingID)
			return ErrCannotCancel
		}
		s.logger.Error("Cancel: repository error for booking id=%d: %v", bookingID, err)
		return fmt.Errorf("%w: Cancel - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Cancel: successfully cancelled booking id=%d with status=%s", bookingID, cancelStatus)
	return nil
}

// Redeem погашает одноразовый код доступа при визите клиента
// Доступно только менеджерам пространства, к которому относится бронирование
// Код действителен один раз: после погашения бронирование переходит в redeemed
func (s *Service) Redeem(ctx context.Context, req *models.RedeemRequest) (*models.BookingResponse, error) {
	s.logger.Info("Redeem: redeeming code by user=%d", req.UserID)

	if req.Code == "" {
		return nil, fmt.Errorf("%w: empty redemption code", ErrInvalidInput)
	}

	// Находим бронирование по коду
	booking, err := s.bookingRepo.GetByRedemptionCode(ctx, req.Code)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrCodeNotFound) {
			s.logger.Warn("Redeem: code not found for user=%d", req.UserID)
			return nil, ErrCodeNotFound
		}
		s.logger.Error("Redeem: repository error: %v", err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %v", ErrInternal, err)
	}

	// Погашать коды может только менеджер пространства
	if err := s.checkManagerAccess(ctx, booking.SpaceID, req.UserID); err != nil {
		s.logger.Warn("Redeem: access denied for user=%d to redeem booking id=%d", req.UserID, booking.ID)
		return nil, ErrAccessDenied
	}

	// Код погашается только для подтверждённых бронирований:
	// повторное погашение, отменённые и просроченные отклоняются
	if !booking.CanBeRedeemed() {
		s.logger.Warn("Redeem: booking id=%d cannot be redeemed, status=%s", booking.ID, booking.Status)
		return nil, ErrCannotRedeem
	}

	// Переход confirmed -> redeemed атомарен: UPDATE с проверкой статуса
	// в WHERE, второй конкурентный запрос с тем же кодом получит отказ
	if err := s.bookingRepo.Redeem(ctx, booking.ID); err != nil {
		if errors.Is(err, bookingRepo.ErrStatusConflict) {
			s.logger.Warn("Redeem: booking id=%d already redeemed or no longer active", booking.ID)
			return nil, ErrCannotRedeem
		}
		s.logger.Error("Redeem: repository error for booking id=%d: %v", booking.ID, err)
		return nil, fmt.Errorf("%w: Redeem - repository error: %v", ErrInternal, err)
	}

	booking.Status = domain.StatusRedeemed

	s.logger.Info("Redeem: successfully redeemed booking id=%d by user=%d", booking.ID, req.UserID)
	return models.FromDomainBooking(booking), nil
}

// ExpireStale переводит неоплаченные чекауты старше olderThan в expired
// вместе с их pending бронированиями, освобождая занятые места
// Вызывается фоновой задачей по расписанию
func (s *Service) ExpireStale(ctx context.Context, olderThan time.Duration) (int, error) {
	cutoff := time.Now().Add(-olderThan)

	var expired int
	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		checkouts, err := s.checkoutRepo.GetPendingCreatedBefore(txCtx, cutoff)
		if err != nil {
			return fmt.Errorf("get pending checkouts: %w", err)
		}

		for _, checkout := range checkouts {
			if err := s.checkoutRepo.UpdateStatus(txCtx, checkout.ID, domain.CheckoutExpired); err != nil {
				return fmt.Errorf("expire checkout id=%d: %w", checkout.ID, err)
			}
			if err := s.bookingRepo.ExpirePendingByCheckoutID(txCtx, checkout.ID); err != nil {
				return fmt.Errorf("expire bookings of checkout id=%d: %w", checkout.ID, err)
			}
			expired++
		}

		return nil
	})

	if err != nil {
		s.logger.Error("ExpireStale: failed to expire stale checkouts: %v", err)
		return 0, fmt.Errorf("%w: ExpireStale: %v", ErrInternal, err)
	}

	if expired > 0 {
		s.logger.Info("ExpireStale: expired %d stale checkouts older than %s", expired, olderThan)
	}

	return expired, nil
}

// Вспомогательные методы

// checkUserAccess проверяет, что пользователь имеет доступ к бронированию
// Пользователь может видеть своё бронирование или если он менеджер пространства
func (s *Service) checkUserAccess(ctx context.Context, booking *domain.Booking, userID int64) error {
	// Если пользователь владелец бронирования - доступ разрешён
	if booking.UserID == userID {
		return nil
	}

	// Проверяем, является ли пользователь менеджером пространства
	if err := s.checkManagerAccess(ctx, booking.SpaceID, userID); err != nil {
		// Ошибка уже залогирована в checkManagerAccess
		return ErrAccessDenied
	}

	return nil
}

// checkManagerAccess проверяет, что пользователь является менеджером пространства
func (s *Service) checkManagerAccess(ctx context.Context, spaceID int64, userID int64) error {
	// Получаем пространство через SpaceService
	space, err := s.spaceClient.GetSpace(ctx, spaceID)
	if err != nil {
		if errors.Is(err, spaceClient.ErrSpaceNotFound) {
			s.logger.Warn("checkManagerAccess: space id=%d not found", spaceID)
			return ErrSpaceNotFound
		}
		s.logger.Error("checkManagerAccess: failed to get space id=%d: %v", spaceID, err)
		return fmt.Errorf("%w: checkManagerAccess - failed to get space: %v", ErrInternal, err)
	}

	// Проверяем, что userID в списке менеджеров
	for _, managerID := range space.ManagerIDs {
		if managerID == userID {
			s.logger.Info("checkManagerAccess: user=%d is manager of space=%d", userID, spaceID)
			return nil
		}
	}

	s.logger.Warn("checkManagerAccess: user=%d is not a manager of space=%d", userID, spaceID)
	return ErrAccessDenied
}
