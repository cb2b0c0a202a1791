package checkouts

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
)

// CheckoutRepository интерфейс репозитория чекаутов
type CheckoutRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Checkout, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCheckoutID(ctx context.Context, checkoutID int64) ([]*domain.Booking, error)
}

// SpaceServiceClient интерфейс клиента для SpaceService
type SpaceServiceClient interface {
	GetSpace(ctx context.Context, spaceID int64) (*spaceservice.Space, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
