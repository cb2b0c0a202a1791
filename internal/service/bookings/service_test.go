package bookings

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/CWS-BookingService/internal/infra/storage/booking"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
	"github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

// --- Стабы зависимостей ---

type stubBookingRepo struct {
	byID     map[int64]*domain.Booking
	byCode   map[string]*domain.Booking
	byUser   []*domain.Booking
	bySpace  []*domain.Booking
	statuses map[int64]domain.BookingStatus

	cancelled       map[int64]string
	expiredCheckout []int64

	// имитация конкурентного перехода статуса между чтением и записью
	redeemConflict bool
	cancelConflict bool
}

func newStubBookingRepo() *stubBookingRepo {
	return &stubBookingRepo{
		byID:      make(map[int64]*domain.Booking),
		byCode:    make(map[string]*domain.Booking),
		statuses:  make(map[int64]domain.BookingStatus),
		cancelled: make(map[int64]string),
	}
}

func (s *stubBookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	b, ok := s.byID[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return b, nil
}

func (s *stubBookingRepo) GetByRedemptionCode(_ context.Context, code string) (*domain.Booking, error) {
	b, ok := s.byCode[code]
	if !ok {
		return nil, bookingRepo.ErrCodeNotFound
	}
	return b, nil
}

func (s *stubBookingRepo) GetByUserID(_ context.Context, _ int64, status *domain.BookingStatus) ([]*domain.Booking, error) {
	if status == nil {
		return s.byUser, nil
	}
	var filtered []*domain.Booking
	for _, b := range s.byUser {
		if b.Status == *status {
			filtered = append(filtered, b)
		}
	}
	return filtered, nil
}

func (s *stubBookingRepo) GetBySpaceWithFilter(_ context.Context, _ domain.SpaceBookingsFilter) ([]*domain.Booking, error) {
	return s.bySpace, nil
}

func (s *stubBookingRepo) Redeem(_ context.Context, id int64) error {
	if s.redeemConflict {
		return bookingRepo.ErrStatusConflict
	}
	s.statuses[id] = domain.StatusRedeemed
	return nil
}

func (s *stubBookingRepo) Cancel(_ context.Context, id int64, status domain.BookingStatus, reason string) error {
	if s.cancelConflict {
		return bookingRepo.ErrStatusConflict
	}
	if _, ok := s.byID[id]; !ok {
		return bookingRepo.ErrStatusConflict
	}
	s.statuses[id] = status
	s.cancelled[id] = reason
	return nil
}

func (s *stubBookingRepo) ExpirePendingByCheckoutID(_ context.Context, checkoutID int64) error {
	s.expiredCheckout = append(s.expiredCheckout, checkoutID)
	return nil
}

type stubCheckoutRepo struct {
	pending  []*domain.Checkout
	statuses map[int64]domain.CheckoutStatus
}

func (s *stubCheckoutRepo) GetPendingCreatedBefore(_ context.Context, _ time.Time) ([]*domain.Checkout, error) {
	return s.pending, nil
}

func (s *stubCheckoutRepo) UpdateStatus(_ context.Context, id int64, status domain.CheckoutStatus) error {
	if s.statuses == nil {
		s.statuses = make(map[int64]domain.CheckoutStatus)
	}
	s.statuses[id] = status
	return nil
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

type stubTxManager struct{}

func (s *stubTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (s *stubTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type stubLogger struct{}

func (s *stubLogger) Info(string, ...interface{})  {}
func (s *stubLogger) Warn(string, ...interface{})  {}
func (s *stubLogger) Error(string, ...interface{}) {}

// --- Вспомогательные конструкторы ---

const (
	ownerID   int64 = 1
	managerID int64 = 77
	otherID   int64 = 99
)

func managedSpace() *spaceservice.Space {
	return &spaceservice.Space{
		ID:           10,
		Name:         "WorkHub HSR",
		SeatCapacity: 20,
		IsApproved:   true,
		ManagerIDs:   []int64{managerID},
	}
}

func confirmedBooking(id int64) *domain.Booking {
	code := "code-" + time.Now().Format("150405")
	return &domain.Booking{
		ID:             id,
		CheckoutID:     42,
		UserID:         ownerID,
		SpaceID:        10,
		BookingDate:    time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		BookingType:    domain.TypeDaily,
		Seats:          2,
		Status:         domain.StatusConfirmed,
		RedemptionCode: &code,
	}
}

func newTestService(repo *stubBookingRepo, checkouts *stubCheckoutRepo, space *stubSpaceClient) *Service {
	if checkouts == nil {
		checkouts = &stubCheckoutRepo{}
	}
	if space == nil {
		space = &stubSpaceClient{space: managedSpace()}
	}
	return NewService(repo, checkouts, space, &stubTxManager{}, &stubLogger{})
}

// --- GetByID ---

func TestGetByID_OwnerSeesOwnBooking(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	resp, err := svc.GetByID(context.Background(), 5, ownerID)

	require.NoError(t, err)
	assert.Equal(t, int64(5), resp.ID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
}

func TestGetByID_ManagerSeesSpaceBooking(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	_, err := svc.GetByID(context.Background(), 5, managerID)

	assert.NoError(t, err)
}

func TestGetByID_StrangerDenied(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	_, err := svc.GetByID(context.Background(), 5, otherID)

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestGetByID_NotFound(t *testing.T) {
	svc := newTestService(newStubBookingRepo(), nil, nil)

	_, err := svc.GetByID(context.Background(), 404, ownerID)

	assert.ErrorIs(t, err, ErrBookingNotFound)
}

// --- GetUserBookings ---

func TestGetUserBookings_FiltersByStatus(t *testing.T) {
	repo := newStubBookingRepo()
	active := confirmedBooking(1)
	cancelled := confirmedBooking(2)
	cancelled.Status = domain.StatusCancelledByUser
	repo.byUser = []*domain.Booking{active, cancelled}
	svc := newTestService(repo, nil, nil)

	status := "confirmed"
	resp, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: &status,
	})

	require.NoError(t, err)
	require.Len(t, resp.Bookings, 1)
	assert.Equal(t, int64(1), resp.Bookings[0].ID)
}

func TestGetUserBookings_InvalidStatus(t *testing.T) {
	svc := newTestService(newStubBookingRepo(), nil, nil)

	status := "teleported"
	_, err := svc.GetUserBookings(context.Background(), &models.GetUserBookingsRequest{
		UserID: ownerID,
		Status: &status,
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

// --- GetSpaceBookings ---

func TestGetSpaceBookings_ManagerOnly(t *testing.T) {
	repo := newStubBookingRepo()
	repo.bySpace = []*domain.Booking{confirmedBooking(1)}
	svc := newTestService(repo, nil, nil)

	resp, err := svc.GetSpaceBookings(context.Background(), &models.GetSpaceBookingsRequest{
		SpaceID: 10,
		UserID:  managerID,
	})
	require.NoError(t, err)
	assert.Len(t, resp.Bookings, 1)

	_, err = svc.GetSpaceBookings(context.Background(), &models.GetSpaceBookingsRequest{
		SpaceID: 10,
		UserID:  ownerID,
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
}

// --- Cancel ---

func TestCancel_OwnerCancelsOwnBooking(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{
		UserID:             ownerID,
		CancellationReason: "план поменялся",
	})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledByUser, repo.statuses[5])
	assert.Equal(t, "план поменялся", repo.cancelled[5])
}

func TestCancel_ManagerCancelsWithSpaceStatus(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{UserID: managerID})

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelledBySpace, repo.statuses[5])
}

func TestCancel_StrangerDenied(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{UserID: otherID})

	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Empty(t, repo.statuses)
}

func TestCancel_RedeemedBookingCannotBeCancelled(t *testing.T) {
	repo := newStubBookingRepo()
	redeemed := confirmedBooking(5)
	redeemed.Status = domain.StatusRedeemed
	repo.byID[5] = redeemed
	svc := newTestService(repo, nil, nil)

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrCannotCancel)
}

func TestCancel_ReasonTooLong(t *testing.T) {
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	long := make([]byte, domain.MaxCancellationReasonLength+1)
	for i := range long {
		long[i] = 'x'
	}

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{
		UserID:             ownerID,
		CancellationReason: string(long),
	})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestCancel_RedeemedBetweenReadAndWrite(t *testing.T) {
	// Бронирование погасили после чтения, но до UPDATE:
	// отмена не должна перезаписать терминальный статус redeemed
	repo := newStubBookingRepo()
	repo.byID[5] = confirmedBooking(5)
	repo.cancelConflict = true
	svc := newTestService(repo, nil, nil)

	err := svc.Cancel(context.Background(), 5, &models.CancelBookingRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.Empty(t, repo.statuses)
	assert.Empty(t, repo.cancelled)
}

// --- Redeem ---

func TestRedeem_ManagerRedeemsConfirmedBooking(t *testing.T) {
	repo := newStubBookingRepo()
	booking := confirmedBooking(5)
	repo.byCode["secret-code"] = booking
	svc := newTestService(repo, nil, nil)

	resp, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: managerID,
		Code:   "secret-code",
	})

	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusRedeemed), resp.Status)
	assert.Equal(t, domain.StatusRedeemed, repo.statuses[5])
}

func TestRedeem_OwnerCannotRedeemOwnCode(t *testing.T) {
	// Код погашает менеджер на входе, а не сам клиент
	repo := newStubBookingRepo()
	repo.byCode["secret-code"] = confirmedBooking(5)
	svc := newTestService(repo, nil, nil)

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: ownerID,
		Code:   "secret-code",
	})

	assert.ErrorIs(t, err, ErrAccessDenied)
}

func TestRedeem_CodeIsSingleUse(t *testing.T) {
	repo := newStubBookingRepo()
	redeemed := confirmedBooking(5)
	redeemed.Status = domain.StatusRedeemed
	repo.byCode["secret-code"] = redeemed
	svc := newTestService(repo, nil, nil)

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: managerID,
		Code:   "secret-code",
	})

	assert.ErrorIs(t, err, ErrCannotRedeem)
}

func TestRedeem_ConcurrentRedeemRejected(t *testing.T) {
	// Два менеджера гасят один код одновременно: чтение обоим вернуло
	// confirmed, но UPDATE с проверкой статуса пройдёт только у одного
	repo := newStubBookingRepo()
	repo.byCode["secret-code"] = confirmedBooking(5)
	repo.redeemConflict = true
	svc := newTestService(repo, nil, nil)

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: managerID,
		Code:   "secret-code",
	})

	assert.ErrorIs(t, err, ErrCannotRedeem)
	assert.Empty(t, repo.statuses)
}

func TestRedeem_UnknownCode(t *testing.T) {
	svc := newTestService(newStubBookingRepo(), nil, nil)

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: managerID,
		Code:   "nope",
	})

	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRedeem_PendingBookingRejected(t *testing.T) {
	// Неоплаченное бронирование погасить нельзя
	repo := newStubBookingRepo()
	pending := confirmedBooking(5)
	pending.Status = domain.StatusPending
	repo.byCode["secret-code"] = pending
	svc := newTestService(repo, nil, nil)

	_, err := svc.Redeem(context.Background(), &models.RedeemRequest{
		UserID: managerID,
		Code:   "secret-code",
	})

	assert.ErrorIs(t, err, ErrCannotRedeem)
}

// --- ExpireStale ---

func TestExpireStale_ExpiresCheckoutsWithBookings(t *testing.T) {
	repo := newStubBookingRepo()
	checkouts := &stubCheckoutRepo{pending: []*domain.Checkout{
		{ID: 42, Status: domain.CheckoutPending},
		{ID: 43, Status: domain.CheckoutPending},
	}}
	svc := newTestService(repo, checkouts, nil)

	expired, err := svc.ExpireStale(context.Background(), 30*time.Minute)

	require.NoError(t, err)
	assert.Equal(t, 2, expired)
	assert.Equal(t, domain.CheckoutExpired, checkouts.statuses[42])
	assert.Equal(t, domain.CheckoutExpired, checkouts.statuses[43])
	assert.ElementsMatch(t, []int64{42, 43}, repo.expiredCheckout)
}

func TestExpireStale_NothingToExpire(t *testing.T) {
	svc := newTestService(newStubBookingRepo(), &stubCheckoutRepo{}, nil)

	expired, err := svc.ExpireStale(context.Background(), 30*time.Minute)

	require.NoError(t, err)
	assert.Zero(t, expired)
}
