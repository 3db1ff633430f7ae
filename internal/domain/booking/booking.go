package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"directstay/internal/domain/listings"
	"directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/events"
)

var (
	ErrInvalidGuests     = errors.New("booking: guests count must be positive")
	ErrTooManyGuests     = errors.New("booking: guests exceed property maximum")
	ErrCheckInPast       = errors.New("booking: check-in is in the past")
	ErrMinStay           = errors.New("booking: stay is shorter than the property minimum")
	ErrNonPositiveTotal  = errors.New("booking: total must be positive")
	ErrInvalidState      = errors.New("booking: invalid state transition")
	ErrPaymentRefMissing = errors.New("booking: payment reference required")
	ErrBookingNotFound   = errors.New("booking: not found")
	ErrEmailRequired     = errors.New("booking: guest email required")
	// ErrConcurrentUpdate is wrapped by repositories when a save loses a version check.
	ErrConcurrentUpdate = errors.New("booking: concurrent update")
)

type BookingID string

type BookingState string

const (
	StatePending   BookingState = "PENDING"
	StateConfirmed BookingState = "CONFIRMED"
	StateCancelled BookingState = "CANCELLED"
)

// Booking is a direct booking from checkout creation to payment confirmation.
type Booking struct {
	ID         BookingID
	ListingID  listings.ListingID
	GuestEmail string
	Range      daterange.DateRange
	Guests     int
	Price      pricing.PriceBreakdown
	// PromoCode is the code that was applied to Price, echoed for usage accounting.
	PromoCode      string
	State          BookingState
	PaymentSession string
	PaymentRef     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Version        int64
	events.EventRecorder
}

type Repository interface {
	ByID(ctx context.Context, id BookingID) (*Booking, error)
	Save(ctx context.Context, booking *Booking) error
}

// ValidateStay runs the caller-level checks that must pass before a quote is computed.
func ValidateStay(listing *listings.Listing, r daterange.DateRange, guests int, now time.Time) error {
	if err := r.Validate(); err != nil {
		return err
	}
	if r.CheckIn.Before(daterange.Day(now)) {
		return ErrCheckInPast
	}
	if guests <= 0 {
		return ErrInvalidGuests
	}
	if listing == nil {
		return listings.ErrListingNotFound
	}
	if listing.MaxGuests > 0 && guests > listing.MaxGuests {
		return ErrTooManyGuests
	}
	if r.Nights() < listing.MinStay {
		return ErrMinStay
	}
	return nil
}

type CreateParams struct {
	ID         BookingID
	ListingID  listings.ListingID
	GuestEmail string
	Range      daterange.DateRange
	Guests     int
	Price      pricing.PriceBreakdown
	CreatedAt  time.Time
}

func NewBooking(params CreateParams) (*Booking, error) {
	if params.Guests <= 0 {
		return nil, ErrInvalidGuests
	}
	email := strings.TrimSpace(params.GuestEmail)
	if email == "" {
		return nil, ErrEmailRequired
	}
	if err := params.Price.Validate(); err != nil {
		return nil, err
	}
	if params.Price.Total.Amount <= 0 {
		return nil, ErrNonPositiveTotal
	}
	now := params.CreatedAt.UTC()
	b := &Booking{
		ID:         params.ID,
		ListingID:  params.ListingID,
		GuestEmail: email,
		Range:      params.Range,
		Guests:     params.Guests,
		Price:      params.Price.Copy(),
		PromoCode:  params.Price.AppliedPromoCode(),
		State:      StatePending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	b.Record(CheckoutCreated{
		BookingID: b.ID,
		ListingID: b.ListingID,
		Range:     b.Range,
		Total:     b.Price.Total.Amount,
		Currency:  b.Price.Currency,
		PromoCode: b.PromoCode,
		Discounts: discountLabels(b.Price),
		At:        now,
	})
	return b, nil
}

// AttachPaymentSession stores the payment provider session that will charge Price.Total.
func (b *Booking) AttachPaymentSession(sessionID string, now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.PaymentSession = sessionID
	b.UpdatedAt = now.UTC()
	return nil
}

// Confirm marks the booking paid. It reports false when the booking was already confirmed,
// so a redelivered confirmation does not repeat side effects.
func (b *Booking) Confirm(paymentRef string, now time.Time) (bool, error) {
	switch b.State {
	case StateConfirmed:
		return false, nil
	case StatePending:
	default:
		return false, ErrInvalidState
	}
	if strings.TrimSpace(paymentRef) == "" {
		return false, ErrPaymentRefMissing
	}
	b.PaymentRef = paymentRef
	b.State = StateConfirmed
	b.UpdatedAt = now.UTC()
	b.Record(BookingConfirmed{
		BookingID: b.ID,
		ListingID: b.ListingID,
		Range:     b.Range,
		Total:     b.Price.Total.Amount,
		Currency:  b.Price.Currency,
		PromoCode: b.PromoCode,
		At:        b.UpdatedAt,
	})
	return true, nil
}

// Cancel abandons a pending checkout, e.g. after a failed payment.
func (b *Booking) Cancel(reason string, now time.Time) error {
	if b.State != StatePending {
		return ErrInvalidState
	}
	b.State = StateCancelled
	b.UpdatedAt = now.UTC()
	b.Record(BookingCancelled{BookingID: b.ID, Reason: reason, At: b.UpdatedAt})
	return nil
}

func discountLabels(p pricing.PriceBreakdown) []string {
	applied := p.Discounts()
	out := make([]string, 0, len(applied))
	for _, d := range applied {
		out = append(out, d.Label)
	}
	return out
}
