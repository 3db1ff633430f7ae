package pricing

import (
	"errors"
	"time"

	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/money"
)

var (
	ErrCurrencyUnset = errors.New("pricing: currency must be defined")
	ErrNoNights      = errors.New("pricing: nights must be positive")
)

// DailyRate is one night of the schedule. Label is display only.
type DailyRate struct {
	Date  time.Time
	Rate  money.Money
	Label string
}

// AppliedDiscount is a reduction that made it into the breakdown.
type AppliedDiscount struct {
	Label  string
	Amount money.Money
	// Code is set for promo discounts so checkout can echo it back.
	Code string
}

// PriceBreakdown is recomputed on every request and never persisted as mutable state.
type PriceBreakdown struct {
	PropertyID            string
	Currency              string
	Range                 daterange.DateRange
	Nights                int
	NightlyRate           money.Money
	Subtotal              money.Money
	DirectBookingDiscount money.Money
	LengthDiscount        *AppliedDiscount
	CustomDiscount        *AppliedDiscount
	PromoDiscount         *AppliedDiscount
	CleaningFee           money.Money
	ServiceFee            money.Money
	Total                 money.Money
	DailyRates            []DailyRate
	// PromoRejection explains why a supplied promo code was not applied.
	PromoRejection string
	// Fallback reports that the static listing rate was used instead of a daily schedule.
	Fallback bool
}

func (p *PriceBreakdown) Validate() error {
	if p.Currency == "" {
		return ErrCurrencyUnset
	}
	if p.Nights <= 0 {
		return ErrNoNights
	}
	return nil
}

// Discounts lists the applied discounts in pipeline order.
func (p PriceBreakdown) Discounts() []AppliedDiscount {
	var out []AppliedDiscount
	if !p.DirectBookingDiscount.IsZero() {
		out = append(out, AppliedDiscount{Label: DirectBookingLabel, Amount: p.DirectBookingDiscount})
	}
	for _, d := range []*AppliedDiscount{p.LengthDiscount, p.CustomDiscount, p.PromoDiscount} {
		if d != nil {
			out = append(out, *d)
		}
	}
	return out
}

// AppliedPromoCode returns the promo code that reduced the total, if any.
func (p PriceBreakdown) AppliedPromoCode() string {
	if p.PromoDiscount == nil {
		return ""
	}
	return p.PromoDiscount.Code
}

func (p PriceBreakdown) Copy() PriceBreakdown {
	clone := p
	clone.DailyRates = append([]DailyRate(nil), p.DailyRates...)
	clone.LengthDiscount = copyDiscount(p.LengthDiscount)
	clone.CustomDiscount = copyDiscount(p.CustomDiscount)
	clone.PromoDiscount = copyDiscount(p.PromoDiscount)
	return clone
}

func copyDiscount(d *AppliedDiscount) *AppliedDiscount {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}
