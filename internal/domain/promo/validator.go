package promo

import (
	"context"
	"errors"
	"time"

	"directstay/internal/domain/shared/discount"
)

const (
	ReasonNotFound  = "Promo code not found"
	ReasonExpired   = "Promo code has expired"
	ReasonScope     = "Promo code is not valid for this property"
	ReasonExhausted = "Promo code has reached its usage limit"
)

// Validation is the outcome of checking a code against a property. It never carries an error.
type Validation struct {
	Valid         bool
	Code          string
	DiscountType  discount.Type
	DiscountValue float64
	Label         string
	Reason        string
}

// Evaluate applies the checks in order and stops at the first failure.
func Evaluate(p *PromoCode, propertyID string, now time.Time) Validation {
	if p == nil {
		return Validation{Reason: ReasonNotFound}
	}
	if p.Expired(now) {
		return Validation{Code: p.Code, Reason: ReasonExpired}
	}
	if !p.AppliesTo(propertyID) {
		return Validation{Code: p.Code, Reason: ReasonScope}
	}
	if p.Exhausted() {
		return Validation{Code: p.Code, Reason: ReasonExhausted}
	}
	return Validation{
		Valid:         true,
		Code:          p.Code,
		DiscountType:  p.DiscountType,
		DiscountValue: p.DiscountValue,
		Label:         p.Label(),
	}
}

// Validator looks codes up in the repository. Validation has no side effects.
type Validator struct {
	Repo Repository
	Now  func() time.Time
}

// Validate returns an error only when the lookup itself failed.
func (v Validator) Validate(ctx context.Context, code, propertyID string) (Validation, error) {
	normalized := NormalizeCode(code)
	if normalized == "" {
		return Validation{Reason: ReasonNotFound}, nil
	}
	if v.Repo == nil {
		return Validation{}, errors.New("promo: repository not configured")
	}
	p, err := v.Repo.ByCode(ctx, normalized)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Validation{Code: normalized, Reason: ReasonNotFound}, nil
		}
		return Validation{}, err
	}
	return Evaluate(p, propertyID, v.now()), nil
}

func (v Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}
	return time.Now().UTC()
}
