package checkout

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/support"
	"directstay/internal/app/middleware"
	"directstay/internal/app/outbox"
	domainbooking "directstay/internal/domain/booking"
	domainpromo "directstay/internal/domain/promo"
)

const ConfirmPaymentKey = "checkout.confirm_payment"

const (
	PaymentSucceeded = "succeeded"
	PaymentFailed    = "failed"
)

type ConfirmPaymentCommand struct {
	EventID    string `json:"event_id" validate:"required"`
	BookingID  string `json:"booking_id" validate:"required"`
	PaymentRef string `json:"payment_ref"`
	Status     string `json:"status" validate:"required,oneof=succeeded failed"`
}

func (ConfirmPaymentCommand) Key() string { return ConfirmPaymentKey }

// IdempotencyKey deduplicates broker redeliveries of the same payment event.
func (c ConfirmPaymentCommand) IdempotencyKey() string { return c.EventID }

func (ConfirmPaymentCommand) ResultPrototype() any { return &dto.PaymentConfirmation{} }

// ConfirmPaymentHandler settles a checkout. Promo usage is incremented only on the
// transition to CONFIRMED, so it happens once per booking however often the event arrives.
type ConfirmPaymentHandler struct {
	Outbox  outbox.Outbox
	Encoder outbox.EventEncoder
	Logger  *slog.Logger
	Now     func() time.Time
}

func (h *ConfirmPaymentHandler) now() time.Time {
	if h.Now != nil {
		return h.Now().UTC()
	}
	return time.Now().UTC()
}

func (h *ConfirmPaymentHandler) Handle(ctx context.Context, cmd ConfirmPaymentCommand) (*dto.PaymentConfirmation, error) {
	unit, err := support.UnitFromContext(ctx)
	if err != nil {
		return nil, err
	}
	booking, err := unit.Bookings().ByID(ctx, domainbooking.BookingID(cmd.BookingID))
	if err != nil {
		return nil, err
	}
	now := h.now()
	result := &dto.PaymentConfirmation{BookingID: cmd.BookingID}
	countPromo := false

	switch cmd.Status {
	case PaymentFailed:
		if booking.State == domainbooking.StatePending {
			if err := booking.Cancel("payment failed", now); err != nil {
				return nil, err
			}
		}
	default:
		changed, err := booking.Confirm(cmd.PaymentRef, now)
		if err != nil {
			return nil, err
		}
		countPromo = changed && booking.PromoCode != ""
		if !changed && h.Logger != nil {
			h.Logger.Info("payment already confirmed", "booking_id", cmd.BookingID, "event_id", cmd.EventID)
		}
	}

	// Save runs the version check. Concurrent confirmations lose here, before
	// touching the promo, so only the one transition that lands counts it.
	if err := unit.Bookings().Save(ctx, booking); err != nil {
		return nil, err
	}
	if countPromo {
		err := unit.Promos().IncrementUsage(ctx, booking.PromoCode)
		switch {
		case errors.Is(err, domainpromo.ErrNotFound):
			// deleted by an admin after checkout; the booking still confirms
			h.logWarn("promo code vanished before confirmation", booking, err)
		case err != nil:
			return nil, err
		default:
			result.PromoIncrement = true
		}
	}
	if err := outbox.RecordDomainEvents(ctx, h.Outbox, h.Encoder, booking.DrainEvents()); err != nil {
		return nil, err
	}
	result.Status = string(booking.State)
	return result, nil
}

func (h *ConfirmPaymentHandler) logWarn(msg string, b *domainbooking.Booking, err error) {
	if h.Logger == nil {
		return
	}
	h.Logger.Warn(msg, "booking_id", b.ID, "promo_code", b.PromoCode, "error", err)
}

var _ commands.Handler[ConfirmPaymentCommand, *dto.PaymentConfirmation] = (*ConfirmPaymentHandler)(nil)
var _ middleware.IdempotentCommand = ConfirmPaymentCommand{}
