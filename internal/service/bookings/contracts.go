package bookings

import (
	"context"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	GetByRedemptionCode(ctx context.Context, code string) (*domain.Booking, error)
	GetByUserID(ctx context.Context, userID int64, status *domain.BookingStatus) ([]*domain.Booking, error)
	GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error)
	Redeem(ctx context.Context, id int64) error
	Cancel(ctx context.Context, id int64, status domain.BookingStatus, reason string) error
	ExpirePendingByCheckoutID(ctx context.Context, checkoutID int64) error
}

// CheckoutRepository интерфейс репозитория чекаутов
type CheckoutRepository interface {
	GetPendingCreatedBefore(ctx context.Context, cutoff time.Time) ([]*domain.Checkout, error)
	UpdateStatus(ctx context.Context, id int64, status domain.CheckoutStatus) error
}

// SpaceServiceClient интерфейс клиента для SpaceService
type SpaceServiceClient interface {
	GetSpace(ctx context.Context, spaceID int64) (*spaceservice.Space, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
