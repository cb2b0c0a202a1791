package create_checkout

import (
	"time"

	"github.com/m04kA/CWS-BookingService/internal/domain"
	createCheckout "github.com/m04kA/CWS-BookingService/internal/usecase/create_checkout"
	"github.com/m04kA/CWS-BookingService/pkg/types"
)

// SelectionRequest одна позиция чекаута в HTTP запросе
type SelectionRequest struct {
	Date        string `json:"date"`        // "2026-03-15"
	BookingType string `json:"bookingType"` // "hourly" или "daily"
	StartTime   string `json:"startTime,omitempty"`
	EndTime     string `json:"endTime,omitempty"`
	Seats       int    `json:"seats"`
}

// CreateCheckoutRequest HTTP request model
type CreateCheckoutRequest struct {
	SpaceID    int64              `json:"spaceId"`
	Selections []SelectionRequest `json:"selections"`
}

// TaxLineResponse одна строка налоговой разбивки
type TaxLineResponse struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	Amount     float64 `json:"amount"`
}

// BookingLineResponse созданное бронирование в HTTP ответе
type BookingLineResponse struct {
	ID            int64   `json:"id"`
	BookingDate   string  `json:"bookingDate"`
	BookingType   string  `json:"bookingType"`
	StartTime     string  `json:"startTime,omitempty"`
	EndTime       string  `json:"endTime,omitempty"`
	Seats         int     `json:"seats"`
	BillableHours float64 `json:"billableHours"`
	LineTotal     float64 `json:"lineTotal"`
	Status        string  `json:"status"`
}

// CheckoutResponse HTTP response model
type CheckoutResponse struct {
	CheckoutID int64  `json:"checkoutId"`
	Status     string `json:"status"`

	Subtotal     float64           `json:"subtotal"`
	TaxBreakdown []TaxLineResponse `json:"taxBreakdown"`
	TotalTax     float64           `json:"totalTax"`
	GrandTotal   float64           `json:"grandTotal"`
	Currency     string            `json:"currency"`

	PaymentOrderID string `json:"paymentOrderId"`
	AmountDue      int64  `json:"amountDue"`

	Bookings []BookingLineResponse `json:"bookings"`

	CreatedAt string `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateCheckoutRequest) ToUseCaseRequest(userID int64) (*createCheckout.Request, error) {
	selections := make([]createCheckout.Selection, len(r.Selections))

	for i, sel := range r.Selections {
		date, err := time.Parse(domain.DateFormat, sel.Date)
		if err != nil {
			return nil, err
		}

		selection := createCheckout.Selection{
			Date:        date,
			BookingType: domain.BookingType(sel.BookingType),
			Seats:       sel.Seats,
		}

		if sel.StartTime != "" {
			startTime, err := types.NewTimeStringFromString(sel.StartTime)
			if err != nil {
				return nil, err
			}
			selection.StartTime = startTime
		}
		if sel.EndTime != "" {
			endTime, err := types.NewTimeStringFromString(sel.EndTime)
			if err != nil {
				return nil, err
			}
			selection.EndTime = endTime
		}

		selections[i] = selection
	}

	return &createCheckout.Request{
		UserID:     userID,
		SpaceID:    r.SpaceID,
		Selections: selections,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createCheckout.Response) *CheckoutResponse {
	breakdown := make([]TaxLineResponse, len(resp.TaxBreakdown))
	for i, line := range resp.TaxBreakdown {
		breakdown[i] = TaxLineResponse{
			Name:       line.Name,
			Percentage: line.Percentage,
			Amount:     line.Amount,
		}
	}

	bookings := make([]BookingLineResponse, len(resp.Bookings))
	for i, b := range resp.Bookings {
		bookings[i] = BookingLineResponse{
			ID:            b.ID,
			BookingDate:   b.BookingDate.Format(domain.DateFormat),
			BookingType:   string(b.BookingType),
			StartTime:     b.StartTime.String(),
			EndTime:       b.EndTime.String(),
			Seats:         b.Seats,
			BillableHours: b.BillableHours,
			LineTotal:     b.LineTotal,
			Status:        b.Status,
		}
	}

	return &CheckoutResponse{
		CheckoutID:     resp.CheckoutID,
		Status:         resp.Status,
		Subtotal:       resp.Subtotal,
		TaxBreakdown:   breakdown,
		TotalTax:       resp.TotalTax,
		GrandTotal:     resp.GrandTotal,
		Currency:       resp.Currency,
		PaymentOrderID: resp.PaymentOrderID,
		AmountDue:      resp.AmountDue,
		Bookings:       bookings,
		CreatedAt:      resp.CreatedAt.Format(time.RFC3339),
	}
}
