package pricing

import (
	"math"
	"time"

	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/money"
)

// ProviderRate is what the dynamic pricing provider knows about a property.
// A zero Min or Max means the bound is absent.
type ProviderRate struct {
	Base money.Money
	Min  money.Money
	Max  money.Money
}

// FlatRateOverride pins the nightly rate for every date in [Start, End], both inclusive.
type FlatRateOverride struct {
	PropertyID string    `json:"property_id" validate:"required"`
	Start      time.Time `json:"start" validate:"required"`
	End        time.Time `json:"end" validate:"required,gtefield=Start"`
	Rate       float64   `json:"rate" validate:"gt=0"`
}

func (o FlatRateOverride) Covers(propertyID string, date time.Time) bool {
	if o.PropertyID != propertyID {
		return false
	}
	day := daterange.Day(date)
	return !day.Before(daterange.Day(o.Start)) && !day.After(daterange.Day(o.End))
}

// BaseRate is the resolver's answer for one night.
type BaseRate struct {
	Rate money.Money
	Min  money.Money
	Max  money.Money
	// Flat marks a flat override; multiplier stages are skipped.
	Flat bool
}

// ResolveBaseRate applies the precedence flat override, provider (with admin base override)
// and reports false when neither is available so the caller falls back to the listing rate.
func ResolveBaseRate(s Snapshot, date time.Time) (BaseRate, bool) {
	var bounds ProviderRate
	if s.Provider != nil {
		bounds = *s.Provider
	}
	for _, o := range s.FlatOverrides {
		if o.Covers(s.PropertyID, date) {
			return BaseRate{Rate: money.FromMajor(o.Rate, s.Currency), Min: bounds.Min, Max: bounds.Max, Flat: true}, true
		}
	}
	if s.Provider == nil {
		return BaseRate{}, false
	}
	base := s.Provider.Base
	if s.BasePriceOverride != nil {
		base = money.FromMajor(*s.BasePriceOverride, s.Currency)
	}
	return BaseRate{Rate: base, Min: bounds.Min, Max: bounds.Max}, true
}

func clamp(rate, min, max money.Money) money.Money {
	if min.Amount > 0 && rate.Amount < min.Amount {
		return money.Money{Amount: min.Amount, Currency: rate.Currency}
	}
	if max.Amount > 0 && rate.Amount > max.Amount {
		return money.Money{Amount: max.Amount, Currency: rate.Currency}
	}
	return rate
}

// applyMultiplier scales m and rounds to whole currency units, half to even.
func applyMultiplier(m money.Money, factor float64) money.Money {
	units := math.RoundToEven(m.Major() * factor)
	return money.Money{Amount: int64(units) * 100, Currency: m.Currency}
}
