package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	checkoutapp "directstay/internal/app/handlers/checkout"
)

type CheckoutHandler struct {
	Commands commands.Bus
}

type createCheckoutRequest struct {
	PropertyID string `json:"property_id"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
	Guests     int    `json:"guests"`
	PromoCode  string `json:"promo_code"`
	GuestEmail string `json:"guest_email"`
}

func (h CheckoutHandler) Create(c *gin.Context) {
	var req createCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err)
		return
	}
	checkIn, checkOut, err := parseStay(req.CheckIn, req.CheckOut)
	if err != nil {
		badRequestError(c, err)
		return
	}
	cmd := checkoutapp.CreateCheckoutCommand{
		PropertyID:      req.PropertyID,
		CheckIn:         checkIn,
		CheckOut:        checkOut,
		Guests:          req.Guests,
		PromoCode:       req.PromoCode,
		GuestEmail:      req.GuestEmail,
		IdempotencyKeyV: c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[checkoutapp.CreateCheckoutCommand, *dto.CheckoutResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

type confirmPaymentRequest struct {
	EventID    string `json:"event_id"`
	BookingID  string `json:"booking_id"`
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status"`
}

// ConfirmPayment accepts payment provider events relayed over HTTP; the Kafka consumer dispatches the same command.
// Events without a status are rejected.
func (h CheckoutHandler) ConfirmPayment(c *gin.Context) {
	var req confirmPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequestError(c, err)
		return
	}
	result, err := commands.Dispatch[checkoutapp.ConfirmPaymentCommand, *dto.PaymentConfirmation](c.Request.Context(), h.Commands, checkoutapp.ConfirmPaymentCommand{
		EventID:    req.EventID,
		BookingID:  req.BookingID,
		PaymentRef: req.PaymentRef,
		Status:     req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ CheckoutHTTP = CheckoutHandler{}
