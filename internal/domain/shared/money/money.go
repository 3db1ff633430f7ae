package money

import (
	"errors"
	"math"
	"strings"
)

var (
	ErrInvalidCurrency  = errors.New("money: invalid currency code")
	ErrCurrencyMismatch = errors.New("money: currency mismatch")
)

// Money keeps amounts in integer minor units (cents) to avoid floating point drift.
type Money struct {
	Amount   int64
	Currency string
}

// New constructs a Money value validating minimal invariants.
func New(amount int64, currency string) (Money, error) {
	if len(currency) != 3 {
		return Money{}, ErrInvalidCurrency
	}
	currency = strings.ToUpper(currency)
	return Money{Amount: amount, Currency: currency}, nil
}

// Must creates Money and panics if validation fails; useful in tests and fixtures.
func Must(amount int64, currency string) Money {
	m, err := New(amount, currency)
	if err != nil {
		panic(err)
	}
	return m
}

// FromMajor converts a major-unit amount (dollars) into minor units, rounding to the nearest cent.
func FromMajor(amount float64, currency string) Money {
	return Money{Amount: int64(math.Round(amount * 100)), Currency: strings.ToUpper(currency)}
}

// Zero returns an empty amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: strings.ToUpper(currency)}
}

// Multiply multiplies the amount by the provided factor.
func (m Money) Multiply(times int64) Money {
	return Money{Amount: m.Amount * times, Currency: m.Currency}
}

// Percent returns pct percent of the amount rounded to the nearest cent.
func (m Money) Percent(pct float64) Money {
	return Money{Amount: int64(math.Round(float64(m.Amount) * pct / 100)), Currency: m.Currency}
}

// Min returns the smaller of two amounts. Currencies are assumed to match.
func (m Money) Min(other Money) Money {
	if other.Amount < m.Amount {
		return Money{Amount: other.Amount, Currency: m.Currency}
	}
	return m
}

// Major returns the amount in major units.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

// IsZero returns true if the amount equals zero.
func (m Money) IsZero() bool {
	return m.Amount == 0
}
