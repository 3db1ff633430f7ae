package pricing

import (
	"math"

	"directstay/internal/domain/shared/money"
)

// StayTotals is the aggregated schedule before any discount.
type StayTotals struct {
	NightlyRate money.Money
	Subtotal    money.Money
	DailyRates  []DailyRate
	Fallback    bool
}

// Aggregate sums the schedule. A nil schedule means fallback: fallbackNightly x nights, no daily rates.
func Aggregate(schedule []DailyRate, fallbackNightly money.Money, nights int) StayTotals {
	if schedule == nil {
		return StayTotals{
			NightlyRate: fallbackNightly,
			Subtotal:    fallbackNightly.Multiply(int64(nights)),
			Fallback:    true,
		}
	}
	subtotal := money.Zero(fallbackNightly.Currency)
	for _, day := range schedule {
		subtotal.Amount += day.Rate.Amount
	}
	avg := subtotal
	if nights > 0 {
		avg.Amount = int64(math.RoundToEven(subtotal.Major()/float64(nights))) * 100
	}
	return StayTotals{NightlyRate: avg, Subtotal: subtotal, DailyRates: schedule}
}
