package verify_payment

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// Request модель запроса на подтверждение оплаты
// Подпись приходит от платёжного шлюза через клиента после успешной оплаты
type Request struct {
	UserID         int64
	PaymentOrderID string
	PaymentID      string
	Signature      string
}

// ConfirmedBooking подтверждённое бронирование с кодом доступа
type ConfirmedBooking struct {
	ID             int64
	BookingDate    time.Time
	BookingType    domain.BookingType
	StartTime      types.TimeString
	EndTime        types.TimeString
	Seats          int
	Status         string
	RedemptionCode string
}

// Response модель ответа с подтверждённым чекаутом
type Response struct {
	CheckoutID int64
	Status     string
	GrandTotal float64
	Currency   string
	PaymentID  string

	Bookings []ConfirmedBooking
}
