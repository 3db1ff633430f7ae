package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/pricing"
	"directstay/internal/app/handlers/support"
	"directstay/internal/app/middleware"
	"directstay/internal/app/outbox"
	"directstay/internal/app/policies"
	domainbooking "directstay/internal/domain/booking"
	domainpromo "directstay/internal/domain/promo"
)

const CreateCheckoutKey = "checkout.create"

var ErrPaymentsNotConfigured = errors.New("checkout: payments port not configured")

type CreateCheckoutCommand struct {
	PropertyID      string    `json:"property_id" validate:"required"`
	CheckIn         time.Time `json:"check_in" validate:"required"`
	CheckOut        time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Guests          int       `json:"guests" validate:"gte=1"`
	PromoCode       string    `json:"promo_code" validate:"omitempty,max=64"`
	GuestEmail      string    `json:"guest_email" validate:"required,email"`
	IdempotencyKeyV string    `json:"-"`
}

func (CreateCheckoutCommand) Key() string { return CreateCheckoutKey }

func (c CreateCheckoutCommand) Normalize() any {
	c.PropertyID = strings.TrimSpace(c.PropertyID)
	c.PromoCode = domainpromo.NormalizeCode(c.PromoCode)
	c.GuestEmail = strings.ToLower(strings.TrimSpace(c.GuestEmail))
	return c
}

func (c CreateCheckoutCommand) IdempotencyKey() string { return c.IdempotencyKeyV }

func (CreateCheckoutCommand) ResultPrototype() any { return &dto.CheckoutResult{} }

// CreateCheckoutHandler prices the stay with the same quoter as the preview, then asks the
// payment provider for a session charging exactly that total.
type CreateCheckoutHandler struct {
	Quoter   pricing.StayQuoter
	Payments policies.PaymentsPort
	Outbox   outbox.Outbox
	Encoder  outbox.EventEncoder
	NewID    func() string
	Now      func() time.Time
}

func (h *CreateCheckoutHandler) Handle(ctx context.Context, cmd CreateCheckoutCommand) (*dto.CheckoutResult, error) {
	if h.Payments == nil {
		return nil, ErrPaymentsNotConfigured
	}
	unit, err := support.UnitFromContext(ctx)
	if err != nil {
		return nil, err
	}

	listing, breakdown, err := h.Quoter.Quote(ctx, pricing.StayRequest{
		PropertyID: cmd.PropertyID,
		CheckIn:    cmd.CheckIn,
		CheckOut:   cmd.CheckOut,
		Guests:     cmd.Guests,
		PromoCode:  cmd.PromoCode,
	})
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if h.Now != nil {
		now = h.Now().UTC()
	}
	booking, err := domainbooking.NewBooking(domainbooking.CreateParams{
		ID:         domainbooking.BookingID(h.newID()),
		ListingID:  listing.ID,
		GuestEmail: cmd.GuestEmail,
		Range:      breakdown.Range,
		Guests:     cmd.Guests,
		Price:      breakdown,
		CreatedAt:  now,
	})
	if err != nil {
		return nil, err
	}

	// The session is opened before Save. A fresh booking ID cannot hit a version
	// conflict, so the transaction never retries this step into an orphan session.
	session, err := h.Payments.CreateSession(ctx, policies.CheckoutSessionRequest{
		BookingID:   string(booking.ID),
		PropertyID:  string(listing.ID),
		Description: fmt.Sprintf("%s, %d nights", listing.Title, breakdown.Nights),
		GuestEmail:  booking.GuestEmail,
		Amount:      breakdown.Total,
		Metadata:    checkoutMetadata(booking),
	})
	if err != nil {
		return nil, fmt.Errorf("checkout: create payment session: %w", err)
	}
	if err := booking.AttachPaymentSession(session.ID, now); err != nil {
		return nil, err
	}

	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking.DrainEvents()); err != nil {
		return nil, err
	}

	return &dto.CheckoutResult{
		BookingID:  string(booking.ID),
		SessionID:  session.ID,
		SessionURL: session.URL,
		Total:      dto.Money(breakdown.Total),
		PromoCode:  booking.PromoCode,
		Breakdown:  dto.MapPriceBreakdown(breakdown),
	}, nil
}

func (h *CreateCheckoutHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

// checkoutMetadata is echoed back by the payment provider on confirmation.
func checkoutMetadata(b *domainbooking.Booking) map[string]string {
	labels := make([]string, 0, 4)
	for _, d := range b.Price.Discounts() {
		labels = append(labels, d.Label)
	}
	meta := map[string]string{
		"booking_id":  string(b.ID),
		"property_id": string(b.ListingID),
		"check_in":    dto.FormatDate(b.Range.CheckIn),
		"check_out":   dto.FormatDate(b.Range.CheckOut),
		"discounts":   strings.Join(labels, "|"),
	}
	if b.PromoCode != "" {
		meta["promo_code"] = b.PromoCode
	}
	return meta
}

var _ commands.Handler[CreateCheckoutCommand, *dto.CheckoutResult] = (*CreateCheckoutHandler)(nil)
var _ middleware.IdempotentCommand = CreateCheckoutCommand{}
