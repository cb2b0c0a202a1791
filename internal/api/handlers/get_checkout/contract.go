package get_checkout

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/service/checkouts/models"
)

type CheckoutService interface {
	GetByID(ctx context.Context, id int64, userID int64) (*models.CheckoutResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
