package get_available_seats

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	spaceClient "github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/pkg/ptr"
)

// UseCase use case для получения почасовой доступности мест на дату
type UseCase struct {
	bookingRepo  BookingRepository
	spaceClient  SpaceServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	spaceClient SpaceServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		spaceClient:  spaceClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения доступности мест
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSeats: user=%d, space=%d, date=%s",
		req.UserID, req.SpaceID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSeats: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что дата не в прошлом
	now := uc.timeProvider.Now()
	if isDateInPast(req.Date, now) {
		uc.logger.Warn("GetAvailableSeats: date %s is in the past", req.Date.Format(domain.DateFormat))
		return nil, ErrInvalidDate
	}

	// 3. Получаем пространство
	space, err := uc.spaceClient.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, spaceClient.ErrSpaceNotFound) {
			uc.logger.Warn("GetAvailableSeats: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		uc.logger.Error("GetAvailableSeats: failed to get space id=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: failed to get space: %v", ErrInternal, err)
	}

	if !space.IsApproved {
		uc.logger.Warn("GetAvailableSeats: space id=%d is not approved", req.SpaceID)
		return nil, ErrSpaceNotApproved
	}

	// 4. Получаем рабочие часы на указанную дату
	workingHours := getWorkingHoursForDay(space, req.Date)
	if !workingHours.IsOpen {
		uc.logger.Info("GetAvailableSeats: space id=%d is closed on %s",
			req.SpaceID, req.Date.Format(domain.DateFormat))
		return &Response{
			Date:         req.Date,
			SpaceID:      req.SpaceID,
			SeatCapacity: space.SeatCapacity,
			Slots:        []Slot{},
		}, nil
	}

	// 5. Генерируем почасовую сетку
	hourSlots, err := generateHourSlots(workingHours)
	if err != nil {
		uc.logger.Error("GetAvailableSeats: failed to generate hour slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate hour slots: %v", ErrInternal, err)
	}

	// 6. Получаем все активные бронирования на эту дату
	filter := domain.SpaceBookingsFilter{
		SpaceID:         req.SpaceID,
		StartDate:       ptr.Ptr(req.Date),
		EndDate:         ptr.Ptr(req.Date),
		IncludeInactive: false,
	}

	bookings, err := uc.bookingRepo.GetBySpaceWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSeats: failed to get bookings: %v", err)
		return nil, fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
	}

	// 7. Вычисляем доступность мест для каждого интервала
	slots := calculateSlotAvailability(hourSlots, bookings, space.SeatCapacity)

	uc.logger.Info("GetAvailableSeats: generated %d slots for space=%d, date=%s",
		len(slots), req.SpaceID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:                req.Date,
		SpaceID:             req.SpaceID,
		SeatCapacity:        space.SeatCapacity,
		DailySeatsAvailable: minAvailableSeats(slots, space.SeatCapacity),
		Slots:               slots,
	}, nil
}
