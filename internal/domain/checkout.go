package domain

import (
	"time"

	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// CheckoutStatus статус чекаута
type CheckoutStatus string

const (
	CheckoutPending   CheckoutStatus = "pending"
	CheckoutPaid      CheckoutStatus = "paid"
	CheckoutCancelled CheckoutStatus = "cancelled"
	CheckoutExpired   CheckoutStatus = "expired"
)

// DateSelection одна позиция мульти-датного чекаута:
// дата, тип бронирования, интервал времени (для почасового) и количество мест
type DateSelection struct {
	Date        time.Time
	BookingType BookingType
	StartTime   types.TimeString // только для hourly
	EndTime     types.TimeString // только для hourly
	Seats       int
}

// SpaceRate тарифы пространства (в рупиях)
type SpaceRate struct {
	PricePerHour float64
	PricePerDay  float64
}

// TaxLine одна строка налоговой разбивки
// Amount округлена до целой денежной единицы независимо от остальных строк
type TaxLine struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// CheckoutTotal результат расчёта стоимости чекаута
type CheckoutTotal struct {
	Subtotal     float64
	TaxBreakdown []TaxLine
	TotalTax     float64
	GrandTotal   float64
}

// Checkout мульти-датный чекаут: единственный источник истины по стоимости
// Суммы считаются один раз при создании заказа и далее только читаются
type Checkout struct {
	ID      int64
	UserID  int64
	SpaceID int64

	Status CheckoutStatus

	Subtotal     float64
	TaxBreakdown []TaxLine
	TotalTax     float64
	GrandTotal   float64
	Currency     string

	// Снимок тарифов на момент чекаута
	PricePerHour float64
	PricePerDay  float64

	// PaymentOrderID идентификатор заказа в платёжном шлюзе
	PaymentOrderID string
	// PaymentID идентификатор платежа, заполняется после подтверждения оплаты
	PaymentID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanBePaid возвращает true, если чекаут ожидает оплаты
func (c *Checkout) CanBePaid() bool {
	return c.Status == CheckoutPending
}

// IsPaid возвращает true, если оплата чекаута подтверждена
func (c *Checkout) IsPaid() bool {
	return c.Status == CheckoutPaid
}
