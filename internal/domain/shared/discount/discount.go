// Package discount holds the adjustment kinds shared by custom discounts and promo codes.
package discount

import (
	"fmt"
	"strings"

	"directstay/internal/domain/shared/money"
)

type Type string

const (
	Percentage Type = "percentage"
	Flat       Type = "flat"
)

func (t Type) Valid() bool {
	return t == Percentage || t == Flat
}

// Amount computes the unclamped reduction for base. Flat values are major units.
func Amount(base money.Money, t Type, value float64) money.Money {
	switch t {
	case Percentage:
		return base.Percent(value)
	case Flat:
		return money.FromMajor(value, base.Currency)
	default:
		return money.Zero(base.Currency)
	}
}

// Describe renders a short guest-facing description such as "15% off".
func Describe(t Type, value float64) string {
	switch t {
	case Percentage:
		return strings.TrimSuffix(strings.TrimSuffix(fmt.Sprintf("%.2f", value), "0"), ".0") + "% off"
	case Flat:
		return fmt.Sprintf("%.2f off", value)
	default:
		return ""
	}
}
