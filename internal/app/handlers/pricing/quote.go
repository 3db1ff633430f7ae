package pricing

import (
	"context"
	"errors"
	"time"

	domainbooking "directstay/internal/domain/booking"
	domainlistings "directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	domainrange "directstay/internal/domain/shared/daterange"
)

var ErrQuoterNotConfigured = errors.New("pricing: quoter not configured")

type StayRequest struct {
	PropertyID string
	CheckIn    time.Time
	CheckOut   time.Time
	Guests     int
	PromoCode  string
}

// StayQuoter is the single entry point preview and checkout use to price a stay,
// so both reach the same total for the same request and configuration.
type StayQuoter struct {
	Listings   domainlistings.Repository
	Calculator domainpricing.Calculator
	Now        func() time.Time
}

func (q StayQuoter) Quote(ctx context.Context, req StayRequest) (*domainlistings.Listing, domainpricing.PriceBreakdown, error) {
	var zero domainpricing.PriceBreakdown
	if q.Listings == nil || q.Calculator == nil {
		return nil, zero, ErrQuoterNotConfigured
	}
	dr, err := domainrange.New(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, zero, err
	}
	listing, err := q.Listings.ByID(ctx, domainlistings.ListingID(req.PropertyID))
	if err != nil {
		return nil, zero, err
	}
	if err := domainbooking.ValidateStay(listing, dr, req.Guests, q.now()); err != nil {
		return nil, zero, err
	}
	breakdown, err := q.Calculator.Quote(ctx, domainpricing.QuoteInput{
		Listing:   listing,
		Range:     dr,
		PromoCode: req.PromoCode,
	})
	if err != nil {
		return nil, zero, err
	}
	return listing, breakdown, nil
}

func (q StayQuoter) now() time.Time {
	if q.Now != nil {
		return q.Now()
	}
	return time.Now().UTC()
}
