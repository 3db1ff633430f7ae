package pricing

import (
	"context"
	"errors"

	"directstay/internal/domain/promo"
)

var (
	// ErrRateNotConfigured means the provider has no mapping for the property.
	ErrRateNotConfigured = errors.New("pricing: provider has no rate for property")
	// ErrRateUnavailable means the provider could not be reached and nothing was cached.
	ErrRateUnavailable = errors.New("pricing: provider unavailable")
)

// RateProvider fetches base, min and max for a property. Implementations cache.
type RateProvider interface {
	ListingRate(ctx context.Context, propertyID string) (ProviderRate, error)
}

// ConfigSource is the read side of the admin configuration. Absent keys yield typed defaults.
type ConfigSource interface {
	PricingRules(ctx context.Context) (RuleSet, error)
	CustomDiscounts(ctx context.Context) ([]CustomDiscount, error)
	CleaningFees(ctx context.Context) (map[string]float64, error)
	BasePriceOverrides(ctx context.Context) (map[string]float64, error)
	FlatRateOverrides(ctx context.Context) ([]FlatRateOverride, error)
}

// ConfigStore adds the admin write side.
type ConfigStore interface {
	ConfigSource
	SavePricingRules(ctx context.Context, rules RuleSet) error
	ResetPricingRules(ctx context.Context) error
	SaveCustomDiscounts(ctx context.Context, discounts []CustomDiscount) error
	SaveCleaningFees(ctx context.Context, fees map[string]float64) error
	SaveBasePriceOverrides(ctx context.Context, overrides map[string]float64) error
	SaveFlatRateOverrides(ctx context.Context, overrides []FlatRateOverride) error
}

type PromoValidator interface {
	Validate(ctx context.Context, code, propertyID string) (promo.Validation, error)
}
