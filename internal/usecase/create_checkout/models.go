package create_checkout

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// Selection одна позиция чекаута: дата, тип бронирования и количество мест
type Selection struct {
	Date        time.Time        // Дата бронирования (без времени)
	BookingType domain.BookingType
	StartTime   types.TimeString // Время начала (только для hourly)
	EndTime     types.TimeString // Время конца (только для hourly)
	Seats       int              // Количество мест
}

// Request модель запроса на создание чекаута
type Request struct {
	UserID     int64
	SpaceID    int64
	Selections []Selection
}

// BookingLine созданное бронирование в составе чекаута
type BookingLine struct {
	ID            int64
	BookingDate   time.Time
	BookingType   domain.BookingType
	StartTime     types.TimeString
	EndTime       types.TimeString
	Seats         int
	BillableHours float64
	LineTotal     float64
	Status        string
}

// Response модель ответа с созданным чекаутом
// Суммы зафиксированы в БД и далее не пересчитываются
type Response struct {
	CheckoutID int64
	Status     string

	Subtotal     float64
	TaxBreakdown []domain.TaxLine
	TotalTax     float64
	GrandTotal   float64
	Currency     string

	// Данные для оплаты на клиенте
	PaymentOrderID string
	AmountDue      int64 // В минимальных единицах валюты (пайсы)

	Bookings []BookingLine

	CreatedAt time.Time
}
