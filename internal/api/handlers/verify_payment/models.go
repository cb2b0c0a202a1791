package verify_payment

import (
	"github.com/m04kA/CWS-BookingService/internal/domain"
	verifyPayment "github.com/m04kA/CWS-BookingService/internal/usecase/verify_payment"
)

// VerifyPaymentRequest HTTP request model
// Поля приходят от платёжного шлюза через клиента после успешной оплаты
type VerifyPaymentRequest struct {
	PaymentOrderID string `json:"paymentOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature"`
}

// ConfirmedBookingResponse подтверждённое бронирование с кодом доступа
type ConfirmedBookingResponse struct {
	ID             int64  `json:"id"`
	BookingDate    string `json:"bookingDate"`
	BookingType    string `json:"bookingType"`
	StartTime      string `json:"startTime,omitempty"`
	EndTime        string `json:"endTime,omitempty"`
	Seats          int    `json:"seats"`
	Status         string `json:"status"`
	RedemptionCode string `json:"redemptionCode"`
}

// VerifyPaymentResponse HTTP response model
type VerifyPaymentResponse struct {
	CheckoutID int64                      `json:"checkoutId"`
	Status     string                     `json:"status"`
	GrandTotal float64                    `json:"grandTotal"`
	Currency   string                     `json:"currency"`
	PaymentID  string                     `json:"paymentId"`
	Bookings   []ConfirmedBookingResponse `json:"bookings"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *VerifyPaymentRequest) ToUseCaseRequest(userID int64) *verifyPayment.Request {
	return &verifyPayment.Request{
		UserID:         userID,
		PaymentOrderID: r.PaymentOrderID,
		PaymentID:      r.PaymentID,
		Signature:      r.Signature,
	}
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *verifyPayment.Response) *VerifyPaymentResponse {
	bookings := make([]ConfirmedBookingResponse, len(resp.Bookings))
	for i, b := range resp.Bookings {
		bookings[i] = ConfirmedBookingResponse{
			ID:             b.ID,
			BookingDate:    b.BookingDate.Format(domain.DateFormat),
			BookingType:    string(b.BookingType),
			StartTime:      b.StartTime.String(),
			EndTime:        b.EndTime.String(),
			Seats:          b.Seats,
			Status:         b.Status,
			RedemptionCode: b.RedemptionCode,
		}
	}

	return &VerifyPaymentResponse{
		CheckoutID: resp.CheckoutID,
		Status:     resp.Status,
		GrandTotal: resp.GrandTotal,
		Currency:   resp.Currency,
		PaymentID:  resp.PaymentID,
		Bookings:   bookings,
	}
}
