package create_checkout

import (
	"context"
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/internal/integrations/paymentgateway"
	"github.com/m04kA/CWS-BookingService/internal/integrations/spaceservice"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	GetBySpaceWithFilter(ctx context.Context, filter domain.SpaceBookingsFilter) ([]*domain.Booking, error)
}

// CheckoutRepository интерфейс репозитория чекаутов
type CheckoutRepository interface {
	Create(ctx context.Context, checkout *domain.Checkout) (*domain.Checkout, error)
}

// TaxRuleRepository интерфейс репозитория налоговых правил
type TaxRuleRepository interface {
	ListEnabledByScope(ctx context.Context, scope string) ([]*domain.TaxRule, error)
}

// SpaceServiceClient интерфейс клиента для SpaceService
type SpaceServiceClient interface {
	GetSpace(ctx context.Context, spaceID int64) (*spaceservice.Space, error)
}

// PaymentGatewayClient интерфейс клиента платёжного шлюза
type PaymentGatewayClient interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*paymentgateway.Order, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
