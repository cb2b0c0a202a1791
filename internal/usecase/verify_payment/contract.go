package verify_payment

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/domain"
)

// CheckoutRepository интерфейс репозитория чекаутов
type CheckoutRepository interface {
	GetByPaymentOrderID(ctx context.Context, orderID string) (*domain.Checkout, error)
	MarkPaid(ctx context.Context, id int64, paymentID string) error
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByCheckoutID(ctx context.Context, checkoutID int64) ([]*domain.Booking, error)
	ConfirmWithCode(ctx context.Context, id int64, code string) error
}

// PaymentGatewayClient интерфейс клиента платёжного шлюза
type PaymentGatewayClient interface {
	VerifySignature(orderID, paymentID, signature string) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
