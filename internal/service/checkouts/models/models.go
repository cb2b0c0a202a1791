package models

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	bookingModels "github.com/m04kA/CWS-BookingService/internal/service/bookings/models"
)

// TaxLineResponse одна строка налоговой разбивки
type TaxLineResponse struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// CheckoutResponse ответ с данными чекаута и его бронированиями
// Суммы читаются из БД как были зафиксированы при создании заказа
type CheckoutResponse struct {
	ID      int64  `json:"id"`
	UserID  int64  `json:"userId"`
	SpaceID int64  `json:"spaceId"`
	Status  string `json:"status"`

	Subtotal     float64           `json:"subtotal"`
	TaxBreakdown []TaxLineResponse `json:"taxBreakdown"`
	TotalTax     float64           `json:"totalTax"`
	GrandTotal   float64           `json:"grandTotal"`
	Currency     string            `json:"currency"`

	PricePerHour float64 `json:"pricePerHour"`
	PricePerDay  float64 `json:"pricePerDay"`

	PaymentOrderID string  `json:"paymentOrderId"`
	PaymentID      *string `json:"paymentId,omitempty"`

	Bookings []bookingModels.BookingResponse `json:"bookings"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// FromDomainCheckout конвертирует domain модели в DTO
func FromDomainCheckout(c *domain.Checkout, bookings []*domain.Booking) *CheckoutResponse {
	if c == nil {
		return nil
	}

	breakdown := make([]TaxLineResponse, len(c.TaxBreakdown))
	for i, line := range c.TaxBreakdown {
		breakdown[i] = TaxLineResponse{
			Name:       line.Name,
			Percentage: line.Percentage,
			Amount:     line.Amount,
		}
	}

	return &CheckoutResponse{
		ID:             c.ID,
		UserID:         c.UserID,
		SpaceID:        c.SpaceID,
		Status:         string(c.Status),
		Subtotal:       c.Subtotal,
		TaxBreakdown:   breakdown,
		TotalTax:       c.TotalTax,
		GrandTotal:     c.GrandTotal,
		Currency:       c.Currency,
		PricePerHour:   c.PricePerHour,
		PricePerDay:    c.PricePerDay,
		PaymentOrderID: c.PaymentOrderID,
		PaymentID:      c.PaymentID,
		Bookings:       bookingModels.FromDomainBookingList(bookings).Bookings,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}
