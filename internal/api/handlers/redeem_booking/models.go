package redeem_booking

// RedeemBookingRequest HTTP request model
type RedeemBookingRequest struct {
	Code string `json:"code"`
}
