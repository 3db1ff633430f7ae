package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"directstay/internal/app/validation"
	domainpricing "directstay/internal/domain/pricing"
)

// Config document names, as addressed by the admin API.
const (
	PricingRules       = "pricing-rules"
	CustomDiscounts    = "custom-discounts"
	CleaningFees       = "cleaning-fees"
	BasePriceOverrides = "base-price-overrides"
	FlatRateOverrides  = "flat-rate-overrides"
)

var (
	ErrUnknownConfig = errors.New("admin: unknown configuration document")
	ErrInvalidConfig = errors.New("admin: invalid configuration payload")
)

// ConfigService reads and replaces admin pricing configuration documents.
type ConfigService struct {
	Store     domainpricing.ConfigStore
	Validator *validation.Validator
}

func (s ConfigService) Get(ctx context.Context, name string) (any, error) {
	switch name {
	case PricingRules:
		return s.Store.PricingRules(ctx)
	case CustomDiscounts:
		out, err := s.Store.CustomDiscounts(ctx)
		return nonNil(out), err
	case CleaningFees:
		return s.Store.CleaningFees(ctx)
	case BasePriceOverrides:
		return s.Store.BasePriceOverrides(ctx)
	case FlatRateOverrides:
		out, err := s.Store.FlatRateOverrides(ctx)
		return nonNil(out), err
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, name)
	}
}

// Put validates and replaces one document, returning the stored value.
func (s ConfigService) Put(ctx context.Context, name string, raw []byte) (any, error) {
	switch name {
	case PricingRules:
		var rules domainpricing.RuleSet
		if err := s.decode(raw, &rules); err != nil {
			return nil, err
		}
		if err := rules.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		return rules, s.Store.SavePricingRules(ctx, rules)
	case CustomDiscounts:
		var discounts []domainpricing.CustomDiscount
		if err := s.decode(raw, &discounts); err != nil {
			return nil, err
		}
		for i := range discounts {
			if d := discounts[i]; d.Start != nil && d.End != nil && d.End.Before(*d.Start) {
				return nil, fmt.Errorf("%w: item %d ends before it starts", ErrInvalidConfig, i)
			}
		}
		return nonNil(discounts), s.Store.SaveCustomDiscounts(ctx, discounts)
	case CleaningFees:
		fees, err := s.decodeAmounts(raw)
		if err != nil {
			return nil, err
		}
		return fees, s.Store.SaveCleaningFees(ctx, fees)
	case BasePriceOverrides:
		overrides, err := s.decodeAmounts(raw)
		if err != nil {
			return nil, err
		}
		return overrides, s.Store.SaveBasePriceOverrides(ctx, overrides)
	case FlatRateOverrides:
		var overrides []domainpricing.FlatRateOverride
		if err := s.decode(raw, &overrides); err != nil {
			return nil, err
		}
		return nonNil(overrides), s.Store.SaveFlatRateOverrides(ctx, overrides)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownConfig, name)
	}
}

func (s ConfigService) ResetPricingRules(ctx context.Context) (domainpricing.RuleSet, error) {
	if err := s.Store.ResetPricingRules(ctx); err != nil {
		return domainpricing.RuleSet{}, err
	}
	return domainpricing.DefaultRuleSet(), nil
}

func (s ConfigService) decode(raw []byte, out any) error {
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if s.Validator == nil {
		return nil
	}
	if err := s.Validator.Slice(derefSlice(out)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return nil
}

// decodeAmounts parses a property-id to amount map; amounts are major units and must not be negative.
func (s ConfigService) decodeAmounts(raw []byte) (map[string]float64, error) {
	out := map[string]float64{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for id, amount := range out {
		if id == "" || amount < 0 {
			return nil, fmt.Errorf("%w: invalid amount for %q", ErrInvalidConfig, id)
		}
	}
	return out, nil
}

func derefSlice(v any) any {
	switch typed := v.(type) {
	case *[]domainpricing.CustomDiscount:
		return *typed
	case *[]domainpricing.FlatRateOverride:
		return *typed
	default:
		return v
	}
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
