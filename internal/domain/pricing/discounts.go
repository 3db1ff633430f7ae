package pricing

import (
	"fmt"
	"time"

	"directstay/internal/domain/promo"
	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/discount"
	"directstay/internal/domain/shared/money"
)

const (
	DirectBookingLabel   = "Direct booking discount (10%)"
	WeeklyDiscountLabel  = "Weekly discount (20%)"
	MonthlyDiscountLabel = "Monthly discount (30%)"

	directBookingPercent = 10
	weeklyPercent        = 20
	monthlyPercent       = 30
	weeklyMinNights      = 7
	monthlyMinNights     = 30
)

// CustomDiscount is an owner-configured automatic discount.
type CustomDiscount struct {
	ID         string        `json:"id"`
	PropertyID string        `json:"property_id" validate:"required"`
	Start      *time.Time    `json:"start,omitempty"`
	End        *time.Time    `json:"end,omitempty"`
	Type       discount.Type `json:"type" validate:"oneof=percentage flat"`
	Value      float64       `json:"value" validate:"gt=0"`
	Label      string        `json:"label"`
}

// Matches reports whether the discount is in scope for the property and stay.
func (d CustomDiscount) Matches(propertyID string, r daterange.DateRange) bool {
	if d.PropertyID != promo.Wildcard && d.PropertyID != propertyID {
		return false
	}
	if d.Start != nil && r.CheckIn.Before(daterange.Day(*d.Start)) {
		return false
	}
	if d.End != nil && r.CheckOut.After(daterange.Day(*d.End)) {
		return false
	}
	return true
}

func (d CustomDiscount) label() string {
	if d.Label != "" {
		return d.Label
	}
	return discount.Describe(d.Type, d.Value)
}

// SelectionStrategy picks one custom discount among those in scope.
type SelectionStrategy string

const (
	FirstMatch SelectionStrategy = "first_match"
	BestOf     SelectionStrategy = "best_of"
)

func (s SelectionStrategy) Valid() bool {
	return s == FirstMatch || s == BestOf
}

// Select returns the chosen discount. base is the amount percentages would apply to.
func (s SelectionStrategy) Select(candidates []CustomDiscount, propertyID string, r daterange.DateRange, base money.Money) (CustomDiscount, bool) {
	var (
		best      CustomDiscount
		bestValue int64
		found     bool
	)
	for _, d := range candidates {
		if !d.Matches(propertyID, r) {
			continue
		}
		if s != BestOf {
			return d, true
		}
		amount := discount.Amount(base, d.Type, d.Value).Amount
		if !found || amount > bestValue {
			best, bestValue, found = d, amount, true
		}
	}
	return best, found
}

// Composition is the discount stage output.
type Composition struct {
	DirectBooking money.Money
	Length        *AppliedDiscount
	Custom        *AppliedDiscount
	Promo         *AppliedDiscount
	Total         money.Money
}

// Compose applies the discounts in order. Direct booking and length of stay are taken off the
// original subtotal, the custom discount off what remains, the promo off the post-custom total.
// Flat custom discounts are not clamped; flat promos never exceed the running total.
func Compose(subtotal money.Money, nights int, custom *CustomDiscount, code *promo.Validation) Composition {
	var out Composition

	switch {
	case nights >= monthlyMinNights:
		out.Length = &AppliedDiscount{Label: MonthlyDiscountLabel, Amount: subtotal.Percent(monthlyPercent)}
	case nights >= weeklyMinNights:
		out.Length = &AppliedDiscount{Label: WeeklyDiscountLabel, Amount: subtotal.Percent(weeklyPercent)}
	}
	out.DirectBooking = money.Zero(subtotal.Currency)
	if nights < monthlyMinNights {
		out.DirectBooking = subtotal.Percent(directBookingPercent)
	}

	running := subtotal
	running.Amount -= out.DirectBooking.Amount
	if out.Length != nil {
		running.Amount -= out.Length.Amount.Amount
	}

	if custom != nil {
		amount := discount.Amount(running, custom.Type, custom.Value)
		out.Custom = &AppliedDiscount{Label: custom.label(), Amount: amount}
		running.Amount -= amount.Amount
	}

	if code != nil && code.Valid {
		amount := money.Zero(running.Currency)
		if running.Amount > 0 {
			amount = discount.Amount(running, code.DiscountType, code.DiscountValue)
			if code.DiscountType == discount.Flat {
				amount = amount.Min(running)
			}
		}
		out.Promo = &AppliedDiscount{Label: promoLabel(code), Amount: amount, Code: code.Code}
		running.Amount -= amount.Amount
	}

	out.Total = running
	return out
}

func promoLabel(v *promo.Validation) string {
	if v.Label != "" {
		return v.Label
	}
	return fmt.Sprintf("%s (%s)", v.Code, discount.Describe(v.DiscountType, v.DiscountValue))
}
