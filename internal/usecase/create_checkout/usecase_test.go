package create_checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// --- Стабы зависимостей ---

type stubBookingRepo struct {
	existing  []*domain.Booking
	created   []*domain.Booking
	filterErr error
	nextID    int64
}

func (s *stubBookingRepo) Create(_ context.Context, booking *domain.Booking) (*domain.Booking, error) {
	s.nextID++
	b := *booking
	b.ID = s.nextID
	s.created = append(s.created, &b)
	return &b, nil
}

func (s *stubBookingRepo) GetBySpaceWithFilter(_ context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error) {
	if s.filterErr != nil {
		return nil, s.filterErr
	}
	var result []*domain.Booking
	for _, b := range s.existing {
		if filter.StartDate != nil && !b.BookingDate.Equal(*filter.StartDate) {
			continue
		}
		result = append(result, b)
	}
	return result, nil
}

type stubCheckoutRepo struct {
	created *domain.Checkout
	err     error
}

func (s *stubCheckoutRepo) Create(_ context.Context, checkout *domain.Checkout) (*domain.Checkout, error) {
	if s.err != nil {
		return nil, s.err
	}
	c := *checkout
	c.ID = 42
	c.CreatedAt = time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s.created = &c
	return &c, nil
}

type stubTaxRepo struct {
	rules []*domain.TaxRule
	err   error
}

func (s *stubTaxRepo) ListEnabledByScope(_ context.Context, _ string) ([]*domain.TaxRule, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.rules, nil
}

type stubSpaceClient struct {
	space *spaceservice.Space
	err   error
}

func (s *stubSpaceClient) GetSpace(_ context.Context, _ int64) (*spaceservice.Space, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.space, nil
}

type stubGateway struct {
	order *paymentgateway.Order
	err   error
	calls int
}

func (s *stubGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (*paymentgateway.Order, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &paymentgateway.Order{
		ID:       "order_test_1",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

type stubTxManager struct{}

func (s *stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubLogger struct{}

func (s *stubLogger) Info(string, ...interface{})  {}
func (s *stubLogger) Warn(string, ...interface{})  {}
func (s *stubLogger) Error(string, ...interface{}) {}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

// --- Вспомогательные конструкторы ---

func openAllWeek(open, close string) spaceservice.WeekSchedule {
	day := spaceservice.DaySchedule{IsOpen: true, OpenTime: &open, CloseTime: &close}
	return spaceservice.WeekSchedule{
		Monday: day, Tuesday: day, Wednesday: day, Thursday: day,
		Friday: day, Saturday: day, Sunday: day,
	}
}

func approvedSpace(capacity int) *spaceservice.Space {
	return &spaceservice.Space{
		ID:           10,
		Name:         "WorkHub Koramangala",
		SeatCapacity: capacity,
		PricePerHour: 150,
		PricePerDay:  1200,
		IsApproved:   true,
		ManagerIDs:   []int64{77},
		WorkingHours: openAllWeek("09:00", "21:00"),
	}
}

func testDate(s string) time.Time {
	d, err := time.Parse(domain.DateFormat, s)
	if err != nil {
		panic(err)
	}
	return d
}

func hourlySelection(day, start, end string, seats int) Selection {
	return Selection{
		Date:        testDate(day),
		BookingType: domain.TypeHourly,
		StartTime:   types.TimeString(start),
		EndTime:     types.TimeString(end),
		Seats:       seats,
	}
}

func dailySelection(day string, seats int) Selection {
	return Selection{
		Date:        testDate(day),
		BookingType: domain.TypeDaily,
		Seats:       seats,
	}
}

type useCaseDeps struct {
	bookingRepo  *stubBookingRepo
	checkoutRepo *stubCheckoutRepo
	taxRepo      *stubTaxRepo
	spaceClient  *stubSpaceClient
	gateway      *stubGateway
}

func newTestUseCase(deps useCaseDeps) *UseCase {
	if deps.bookingRepo == nil {
		deps.bookingRepo = &stubBookingRepo{}
	}
	if deps.checkoutRepo == nil {
		deps.checkoutRepo = &stubCheckoutRepo{}
	}
	if deps.taxRepo == nil {
		deps.taxRepo = &stubTaxRepo{rules: []*domain.TaxRule{
			{Name: "GST", Percentage: 18, IsEnabled: true, AppliesTo: domain.TaxScopeBooking, Position: 1},
		}}
	}
	if deps.spaceClient == nil {
		deps.spaceClient = &stubSpaceClient{space: approvedSpace(20)}
	}
	if deps.gateway == nil {
		deps.gateway = &stubGateway{}
	}

	uc := NewUseCase(
		deps.bookingRepo,
		deps.checkoutRepo,
		deps.taxRepo,
		deps.spaceClient,
		deps.gateway,
		&stubTxManager{},
		&stubLogger{},
		1.0,
		"INR",
	)
	uc.timeProvider = &fixedTime{now: time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)}
	return uc
}

// --- Тесты ---

func TestExecute_MultiDateCheckout(t *testing.T) {
	bookingRepo := &stubBookingRepo{}
	checkoutRepo := &stubCheckoutRepo{}
	gateway := &stubGateway{}
	uc := newTestUseCase(useCaseDeps{
		bookingRepo:  bookingRepo,
		checkoutRepo: checkoutRepo,
		gateway:      gateway,
	})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:  1,
		SpaceID: 10,
		Selections: []Selection{
			hourlySelection("2026-09-15", "09:00", "17:00", 2), // 150 × 2 × 8 = 2400
			dailySelection("2026-09-16", 1),                    // 1200
		},
	})

	require.NoError(t, err)
	// Subtotal 3600, GST 18% = 648, итог 4248
	assert.Equal(t, 3600.0, resp.Subtotal)
	assert.Equal(t, 648.0, resp.TotalTax)
	assert.Equal(t, 4248.0, resp.GrandTotal)
	assert.Equal(t, int64(424800), resp.AmountDue)
	assert.Equal(t, "INR", resp.Currency)
	assert.Equal(t, "order_test_1", resp.PaymentOrderID)
	assert.Equal(t, string(domain.CheckoutPending), resp.Status)
	require.Len(t, resp.Bookings, 2)
	assert.Equal(t, 1, gateway.calls)

	// Суммы чекаута зафиксированы при создании, снимок тарифов сохранён
	require.NotNil(t, checkoutRepo.created)
	assert.Equal(t, 4248.0, checkoutRepo.created.GrandTotal)
	assert.Equal(t, 150.0, checkoutRepo.created.PricePerHour)
	assert.Equal(t, 1200.0, checkoutRepo.created.PricePerDay)
	assert.Equal(t, "order_test_1", checkoutRepo.created.PaymentOrderID)

	// Каждая позиция стала отдельным бронированием в статусе pending
	require.Len(t, bookingRepo.created, 2)
	for _, b := range bookingRepo.created {
		assert.Equal(t, domain.StatusPending, b.Status)
		assert.Equal(t, int64(42), b.CheckoutID)
	}
	assert.Equal(t, 8.0, bookingRepo.created[0].BillableHours)
	assert.Equal(t, 2400.0, bookingRepo.created[0].LineTotal)
	assert.Equal(t, 1200.0, bookingRepo.created[1].LineTotal)
}

func TestExecute_SpaceNotFound(t *testing.T) {
	uc := newTestUseCase(useCaseDeps{
		spaceClient: &stubSpaceClient{err: spaceservice.ErrSpaceNotFound},
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    999,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrSpaceNotFound)
}

func TestExecute_SpaceNotApproved(t *testing.T) {
	space := approvedSpace(20)
	space.IsApproved = false
	uc := newTestUseCase(useCaseDeps{
		spaceClient: &stubSpaceClient{space: space},
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrSpaceNotApproved)
}

func TestExecute_PastDateRejected(t *testing.T) {
	gateway := &stubGateway{}
	uc := newTestUseCase(useCaseDeps{gateway: gateway})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-08-20", 1)},
	})

	assert.ErrorIs(t, err, ErrInvalidDate)
	assert.Equal(t, 0, gateway.calls)
}

func TestExecute_TaxConfigUnavailableBlocksCheckout(t *testing.T) {
	// Ошибка загрузки налогов блокирует чекаут:
	// заказ с неполной суммой хуже отклонённого заказа
	gateway := &stubGateway{}
	uc := newTestUseCase(useCaseDeps{
		taxRepo: &stubTaxRepo{err: errors.New("connection refused")},
		gateway: gateway,
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrTaxConfigUnavailable)
	assert.Equal(t, 0, gateway.calls)
}

func TestExecute_SpaceCatalogUnavailable(t *testing.T) {
	// Каталог недоступен - тариф недоступен: ошибка повторяемая,
	// тариф никогда не подставляется нулём
	gateway := &stubGateway{}
	uc := newTestUseCase(useCaseDeps{
		spaceClient: &stubSpaceClient{err: spaceservice.ErrServiceUnavailable},
		gateway:     gateway,
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrRateUnavailable)
	assert.Equal(t, 0, gateway.calls)
}

func TestExecute_RateUnavailableForType(t *testing.T) {
	space := approvedSpace(20)
	space.PricePerDay = 0
	uc := newTestUseCase(useCaseDeps{
		spaceClient: &stubSpaceClient{space: space},
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrRateUnavailable)
}

func TestExecute_OutsideWorkingHours(t *testing.T) {
	uc := newTestUseCase(useCaseDeps{})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{hourlySelection("2026-09-15", "07:00", "10:00", 1)},
	})

	assert.ErrorIs(t, err, ErrSpaceClosed)
}

func TestExecute_SeatsNotAvailable(t *testing.T) {
	// 18 из 20 мест заняты дневным бронированием, запрошено ещё 3
	bookingRepo := &stubBookingRepo{
		existing: []*domain.Booking{
			{
				SpaceID:     10,
				BookingDate: testDate("2026-09-15"),
				BookingType: domain.TypeDaily,
				Seats:       18,
				Status:      domain.StatusConfirmed,
			},
		},
	}
	checkoutRepo := &stubCheckoutRepo{}
	uc := newTestUseCase(useCaseDeps{
		bookingRepo:  bookingRepo,
		checkoutRepo: checkoutRepo,
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{hourlySelection("2026-09-15", "10:00", "14:00", 3)},
	})

	assert.ErrorIs(t, err, ErrSeatsNotAvailable)
	assert.Nil(t, checkoutRepo.created)
	assert.Empty(t, bookingRepo.created)
}

func TestExecute_NonOverlappingHourlyDoNotCompete(t *testing.T) {
	// Интервалы, соприкасающиеся границами, не пересекаются:
	// 09:00-13:00 и 13:00-17:00 могут делить одни и те же места
	bookingRepo := &stubBookingRepo{
		existing: []*domain.Booking{
			{
				SpaceID:     10,
				BookingDate: testDate("2026-09-15"),
				BookingType: domain.TypeHourly,
				StartTime:   types.TimeString("09:00"),
				EndTime:     types.TimeString("13:00"),
				Seats:       20,
				Status:      domain.StatusConfirmed,
			},
		},
	}
	uc := newTestUseCase(useCaseDeps{bookingRepo: bookingRepo})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{hourlySelection("2026-09-15", "13:00", "17:00", 20)},
	})

	assert.NoError(t, err)
}

func TestExecute_SelectionsWithinRequestCompete(t *testing.T) {
	// Две пересекающиеся позиции одного запроса конкурируют за места
	uc := newTestUseCase(useCaseDeps{
		spaceClient: &stubSpaceClient{space: approvedSpace(5)},
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:  1,
		SpaceID: 10,
		Selections: []Selection{
			hourlySelection("2026-09-15", "09:00", "13:00", 3),
			hourlySelection("2026-09-15", "11:00", "15:00", 3),
		},
	})

	assert.ErrorIs(t, err, ErrSeatsNotAvailable)
}

func TestExecute_PaymentOrderRejected(t *testing.T) {
	checkoutRepo := &stubCheckoutRepo{}
	uc := newTestUseCase(useCaseDeps{
		checkoutRepo: checkoutRepo,
		gateway:      &stubGateway{err: paymentgateway.ErrOrderRejected},
	})

	_, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{dailySelection("2026-09-15", 1)},
	})

	assert.ErrorIs(t, err, ErrPaymentOrderFailed)
	// До транзакции дело не дошло - чекаут не создан
	assert.Nil(t, checkoutRepo.created)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(useCaseDeps{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"no selections", &Request{UserID: 1, SpaceID: 10}},
		{"zero user", &Request{SpaceID: 10, Selections: []Selection{dailySelection("2026-09-15", 1)}}},
		{"zero seats", &Request{UserID: 1, SpaceID: 10, Selections: []Selection{dailySelection("2026-09-15", 0)}}},
		{"hourly without times", &Request{UserID: 1, SpaceID: 10, Selections: []Selection{
			{Date: testDate("2026-09-15"), BookingType: domain.TypeHourly, Seats: 1},
		}}},
		{"daily with times", &Request{UserID: 1, SpaceID: 10, Selections: []Selection{
			{
				Date:        testDate("2026-09-15"),
				BookingType: domain.TypeDaily,
				StartTime:   types.TimeString("09:00"),
				EndTime:     types.TimeString("17:00"),
				Seats:       1,
			},
		}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}

func TestExecute_MinimumBillableHourFloor(t *testing.T) {
	bookingRepo := &stubBookingRepo{}
	uc := newTestUseCase(useCaseDeps{bookingRepo: bookingRepo})

	resp, err := uc.Execute(context.Background(), &Request{
		UserID:     1,
		SpaceID:    10,
		Selections: []Selection{hourlySelection("2026-09-15", "10:00", "10:30", 1)},
	})

	require.NoError(t, err)
	// Полчаса тарифицируются как минимальный час
	assert.Equal(t, 150.0, resp.Subtotal)
	require.Len(t, bookingRepo.created, 1)
	assert.Equal(t, 1.0, bookingRepo.created[0].BillableHours)
}
