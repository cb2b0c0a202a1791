package create_checkout

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/internal/pricing"
	"github.com/m04kA/CWS-BookingService/pkg/ptr"
)

// UseCase use case для создания мульти-датного чекаута
// Считает стоимость, создаёт платёжный заказ и атомарно резервирует места
// на все выбранные даты: либо записываются все бронирования, либо ни одного
type UseCase struct {
	bookingRepo  BookingRepository
	checkoutRepo CheckoutRepository
	taxRuleRepo  TaxRuleRepository
	spaceClient  SpaceServiceClient
	gateway      PaymentGatewayClient
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger

	minBillableHours float64
	currency         string
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	checkoutRepo CheckoutRepository,
	taxRuleRepo TaxRuleRepository,
	spaceClient SpaceServiceClient,
	gateway PaymentGatewayClient,
	txManager TransactionManager,
	logger Logger,
	minBillableHours float64,
	currency string,
) *UseCase {
	if minBillableHours <= 0 {
		minBillableHours = domain.DefaultMinBillableHours
	}

	return &UseCase{
		bookingRepo:      bookingRepo,
		checkoutRepo:     checkoutRepo,
		taxRuleRepo:      taxRuleRepo,
		spaceClient:      spaceClient,
		gateway:          gateway,
		txManager:        txManager,
		timeProvider:     &RealTimeProvider{},
		logger:           logger,
		minBillableHours: minBillableHours,
		currency:         currency,
	}
}

// Execute выполняет use case создания чекаута
// Использует сериализуемую транзакцию для предотвращения гонки за места
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateCheckout: user=%d, space=%d, selections=%d",
		req.UserID, req.SpaceID, len(req.Selections))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateCheckout: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время и проверяем даты
	now := uc.timeProvider.Now()
	if err := validateDates(req.Selections, now); err != nil {
		uc.logger.Warn("CreateCheckout: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем пространство
	// Недоступный каталог означает недоступный тариф: тариф никогда
	// не подставляется нулём, клиент может повторить запрос позже
	space, err := uc.spaceClient.GetSpace(ctx, req.SpaceID)
	if err != nil {
		if errors.Is(err, spaceservice.ErrSpaceNotFound) {
			uc.logger.Warn("CreateCheckout: space id=%d not found", req.SpaceID)
			return nil, ErrSpaceNotFound
		}
		if errors.Is(err, spaceservice.ErrServiceUnavailable) {
			uc.logger.Error("CreateCheckout: space catalog unavailable for space id=%d: %v", req.SpaceID, err)
			return nil, fmt.Errorf("%w: space catalog unavailable: %v", ErrRateUnavailable, err)
		}
		uc.logger.Error("CreateCheckout: failed to get space id=%d: %v", req.SpaceID, err)
		return nil, fmt.Errorf("%w: failed to get space: %v", ErrInternal, err)
	}

	if !space.IsApproved {
		uc.logger.Warn("CreateCheckout: space id=%d is not approved", req.SpaceID)
		return nil, ErrSpaceNotApproved
	}

	// 4. Проверяем тарифы и рабочие часы
	if err := validateRates(req.Selections, space); err != nil {
		uc.logger.Warn("CreateCheckout: rate validation failed: %v", err)
		return nil, err
	}

	if err := validateWorkingHours(req.Selections, space); err != nil {
		uc.logger.Warn("CreateCheckout: working hours validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем налоговую конфигурацию
	// Ошибка блокирует чекаут: заказ с неполной суммой налогов
	// хуже отклонённого заказа
	taxRules, err := uc.taxRuleRepo.ListEnabledByScope(ctx, domain.TaxScopeBooking)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to load tax rules: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrTaxConfigUnavailable, err)
	}

	// 6. Считаем стоимость чекаута
	rate := domain.SpaceRate{
		PricePerHour: space.PricePerHour,
		PricePerDay:  space.PricePerDay,
	}

	total, err := pricing.Calculate(toDateSelections(req.Selections), rate, taxRules, uc.minBillableHours)
	if err != nil {
		uc.logger.Warn("CreateCheckout: pricing failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	uc.logger.Info("CreateCheckout: subtotal=%.2f, tax=%.2f, total=%.2f %s",
		total.Subtotal, total.TotalTax, total.GrandTotal, uc.currency)

	// 7. Создаем заказ в платёжном шлюзе
	// Шлюз принимает суммы в минимальных единицах валюты
	amountDue := int64(math.Round(total.GrandTotal * 100))
	receipt := uuid.NewString()

	order, err := uc.gateway.CreateOrder(ctx, amountDue, uc.currency, receipt)
	if err != nil {
		uc.logger.Error("CreateCheckout: failed to create payment order: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrPaymentOrderFailed, err)
	}

	// Переменные для хранения результата
	var createdCheckout *domain.Checkout
	var createdBookings []*domain.Booking

	// 8. Резервируем места и сохраняем чекаут в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 8.1. Проверяем доступность мест на каждую дату с блокировкой (FOR UPDATE)
		if err := uc.checkSeatAvailability(txCtx, req, space); err != nil {
			return err
		}

		// 8.2. Сохраняем чекаут с зафиксированными суммами и снимком тарифов
		checkout, err := uc.checkoutRepo.Create(txCtx, &domain.Checkout{
			UserID:         req.UserID,
			SpaceID:        req.SpaceID,
			Status:         domain.CheckoutPending,
			Subtotal:       total.Subtotal,
			TaxBreakdown:   total.TaxBreakdown,
			TotalTax:       total.TotalTax,
			GrandTotal:     total.GrandTotal,
			Currency:       uc.currency,
			PricePerHour:   space.PricePerHour,
			PricePerDay:    space.PricePerDay,
			PaymentOrderID: order.ID,
		})
		if err != nil {
			uc.logger.Error("CreateCheckout: failed to create checkout: %v", err)
			return fmt.Errorf("%w: failed to create checkout: %v", ErrInternal, err)
		}

		// 8.3. Создаем по одному бронированию на каждую позицию
		bookings := make([]*domain.Booking, 0, len(req.Selections))
		for _, sel := range req.Selections {
			billableHours, err := pricing.BillableHours(toDateSelection(sel), uc.minBillableHours)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			lineTotal, err := pricing.LineTotal(toDateSelection(sel), rate, uc.minBillableHours)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}

			booking, err := uc.bookingRepo.Create(txCtx, &domain.Booking{
				CheckoutID:    checkout.ID,
				UserID:        req.UserID,
				SpaceID:       req.SpaceID,
				BookingDate:   sel.Date,
				BookingType:   sel.BookingType,
				StartTime:     sel.StartTime,
				EndTime:       sel.EndTime,
				Seats:         sel.Seats,
				BillableHours: billableHours,
				LineTotal:     lineTotal,
				Status:        domain.StatusPending,
			})
			if err != nil {
				uc.logger.Error("CreateCheckout: failed to create booking for %s: %v",
					sel.Date.Format(domain.DateFormat), err)
				return fmt.Errorf("%w: failed to create booking: %v", ErrInternal, err)
			}

			bookings = append(bookings, booking)
		}

		createdCheckout = checkout
		createdBookings = bookings
		return nil
	})

	if err != nil {
		// Заказ в шлюзе остаётся неоплаченным и истечёт по TTL шлюза
		uc.logger.Warn("CreateCheckout: transaction failed, payment order %s left unpaid", order.ID)
		return nil, err
	}

	uc.logger.Info("CreateCheckout: successfully created checkout id=%d with %d bookings, order=%s",
		createdCheckout.ID, len(createdBookings), order.ID)

	return buildResponse(createdCheckout, createdBookings, amountDue), nil
}

// checkSeatAvailability проверяет, что на каждую дату хватает мест
// с учётом активных бронирований и остальных позиций этого же запроса
func (uc *UseCase) checkSeatAvailability(ctx context.Context, req *Request, space *spaceservice.Space) error {
	for i, sel := range req.Selections {
		filter := domain.SpaceBookingsFilter{
			SpaceID:         req.SpaceID,
			StartDate:       ptr.Ptr(sel.Date),
			EndDate:         ptr.Ptr(sel.Date),
			IncludeInactive: false,
		}

		bookings, err := uc.bookingRepo.GetBySpaceWithFilter(ctx, filter)
		if err != nil {
			uc.logger.Error("CreateCheckout: failed to get bookings for %s: %v",
				sel.Date.Format(domain.DateFormat), err)
			return fmt.Errorf("%w: failed to get bookings: %v", ErrInternal, err)
		}

		taken := seatsTaken(sel, bookings)

		// Позиции этого же запроса тоже конкурируют за места
		for j, other := range req.Selections {
			if i == j {
				continue
			}
			if selectionsOverlap(sel, other) {
				taken += other.Seats
			}
		}

		if taken+sel.Seats > space.SeatCapacity {
			uc.logger.Warn("CreateCheckout: not enough seats on %s, %d taken + %d requested > %d capacity",
				sel.Date.Format(domain.DateFormat), taken, sel.Seats, space.SeatCapacity)
			return fmt.Errorf("%w: %s", ErrSeatsNotAvailable, sel.Date.Format(domain.DateFormat))
		}
	}

	return nil
}

// toDateSelection конвертирует позицию запроса в domain модель для расчёта
func toDateSelection(sel Selection) domain.DateSelection {
	return domain.DateSelection{
		Date:        sel.Date,
		BookingType: sel.BookingType,
		StartTime:   sel.StartTime,
		EndTime:     sel.EndTime,
		Seats:       sel.Seats,
	}
}

// toDateSelections конвертирует позиции запроса в domain модели
func toDateSelections(selections []Selection) []domain.DateSelection {
	result := make([]domain.DateSelection, len(selections))
	for i, sel := range selections {
		result[i] = toDateSelection(sel)
	}
	return result
}

// buildResponse собирает ответ из созданных сущностей
func buildResponse(checkout *domain.Checkout, bookings []*domain.Booking, amountDue int64) *Response {
	lines := make([]BookingLine, len(bookings))
	for i, b := range bookings {
		lines[i] = BookingLine{
			ID:            b.ID,
			BookingDate:   b.BookingDate,
			BookingType:   b.BookingType,
			StartTime:     b.StartTime,
			EndTime:       b.EndTime,
			Seats:         b.Seats,
			BillableHours: b.BillableHours,
			LineTotal:     b.LineTotal,
			Status:        string(b.Status),
		}
	}

	return &Response{
		CheckoutID:     checkout.ID,
		Status:         string(checkout.Status),
		Subtotal:       checkout.Subtotal,
		TaxBreakdown:   checkout.TaxBreakdown,
		TotalTax:       checkout.TotalTax,
		GrandTotal:     checkout.GrandTotal,
		Currency:       checkout.Currency,
		PaymentOrderID: checkout.PaymentOrderID,
		AmountDue:      amountDue,
		Bookings:       lines,
		CreatedAt:      checkout.CreatedAt,
	}
}
