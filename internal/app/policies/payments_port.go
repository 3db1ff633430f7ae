package policies

import (
	"context"

	"directstay/internal/domain/shared/money"
)

type CheckoutSessionRequest struct {
	BookingID   string
	PropertyID  string
	Description string
	GuestEmail  string
	// Amount is charged exactly; it is the quoted total in minor units.
	Amount   money.Money
	Metadata map[string]string
}

type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentsPort creates hosted checkout sessions with the payment provider.
type PaymentsPort interface {
	CreateSession(ctx context.Context, req CheckoutSessionRequest) (CheckoutSession, error)
}
