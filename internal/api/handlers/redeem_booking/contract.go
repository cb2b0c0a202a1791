package redeem_booking

import (
	"context"

	"github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

type BookingService interface {
	Redeem(ctx context.Context, req *models.RedeemRequest) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
