package dto

type CheckoutResult struct {
	BookingID  string         `json:"booking_id"`
	SessionID  string         `json:"session_id"`
	SessionURL string         `json:"session_url,omitempty"`
	Total      MoneyDTO       `json:"total"`
	PromoCode  string         `json:"promo_code,omitempty"`
	Breakdown  PriceBreakdown `json:"breakdown"`
}

type PaymentConfirmation struct {
	BookingID      string `json:"booking_id"`
	Status         string `json:"status"`
	PromoIncrement bool   `json:"promo_incremented"`
}
