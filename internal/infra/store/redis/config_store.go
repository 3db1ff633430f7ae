package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	domainpricing "directstay/internal/domain/pricing"
)

const defaultPrefix = "directstay"

const (
	keyPricingRules       = "config:pricing-rules"
	keyCustomDiscounts    = "config:custom-discounts"
	keyCleaningFees       = "config:cleaning-fees"
	keyBasePriceOverrides = "config:base-price-overrides"
	keyFlatRateOverrides  = "config:flat-rate-overrides"
)

// ConfigStore keeps each admin configuration value as one JSON string. Missing keys read as defaults.
type ConfigStore struct {
	client goredis.UniversalClient
	prefix string
}

func NewConfigStore(client goredis.UniversalClient, prefix string) *ConfigStore {
	trimmed := strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if trimmed == "" {
		trimmed = defaultPrefix
	}
	return &ConfigStore{client: client, prefix: trimmed}
}

func (s *ConfigStore) PricingRules(ctx context.Context) (domainpricing.RuleSet, error) {
	var rules domainpricing.RuleSet
	found, err := s.load(ctx, keyPricingRules, &rules)
	if err != nil {
		return domainpricing.RuleSet{}, err
	}
	if !found {
		return domainpricing.DefaultRuleSet(), nil
	}
	return rules, nil
}

func (s *ConfigStore) CustomDiscounts(ctx context.Context) ([]domainpricing.CustomDiscount, error) {
	var out []domainpricing.CustomDiscount
	if _, err := s.load(ctx, keyCustomDiscounts, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConfigStore) CleaningFees(ctx context.Context) (map[string]float64, error) {
	return s.loadMap(ctx, keyCleaningFees)
}

func (s *ConfigStore) BasePriceOverrides(ctx context.Context) (map[string]float64, error) {
	return s.loadMap(ctx, keyBasePriceOverrides)
}

func (s *ConfigStore) FlatRateOverrides(ctx context.Context) ([]domainpricing.FlatRateOverride, error) {
	var out []domainpricing.FlatRateOverride
	if _, err := s.load(ctx, keyFlatRateOverrides, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ConfigStore) SavePricingRules(ctx context.Context, rules domainpricing.RuleSet) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	return s.store(ctx, keyPricingRules, rules)
}

func (s *ConfigStore) ResetPricingRules(ctx context.Context) error {
	return s.client.Del(ctx, s.key(keyPricingRules)).Err()
}

func (s *ConfigStore) SaveCustomDiscounts(ctx context.Context, discounts []domainpricing.CustomDiscount) error {
	return s.store(ctx, keyCustomDiscounts, nonNil(discounts))
}

func (s *ConfigStore) SaveCleaningFees(ctx context.Context, fees map[string]float64) error {
	return s.store(ctx, keyCleaningFees, nonNilMap(fees))
}

func (s *ConfigStore) SaveBasePriceOverrides(ctx context.Context, overrides map[string]float64) error {
	return s.store(ctx, keyBasePriceOverrides, nonNilMap(overrides))
}

func (s *ConfigStore) SaveFlatRateOverrides(ctx context.Context, overrides []domainpricing.FlatRateOverride) error {
	return s.store(ctx, keyFlatRateOverrides, nonNil(overrides))
}

// Ping is used by readiness checks.
func (s *ConfigStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *ConfigStore) key(name string) string {
	return s.prefix + ":" + name
}

func (s *ConfigStore) load(ctx context.Context, name string, out any) (bool, error) {
	raw, err := s.client.Get(ctx, s.key(name)).Bytes()
	return decode(name, raw, err, out)
}

func (s *ConfigStore) loadMap(ctx context.Context, name string) (map[string]float64, error) {
	out := map[string]float64{}
	if _, err := s.load(ctx, name, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = map[string]float64{}
	}
	return out, nil
}

func (s *ConfigStore) store(ctx context.Context, name string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("redis: encode %s: %w", name, err)
	}
	return s.client.Set(ctx, s.key(name), data, 0).Err()
}

// decode treats redis.Nil as an absent key so callers fall back to defaults.
func decode(name string, raw []byte, getErr error, out any) (bool, error) {
	if errors.Is(getErr, goredis.Nil) {
		return false, nil
	}
	if getErr != nil {
		return false, fmt.Errorf("redis: get %s: %w", name, getErr)
	}
	if len(raw) == 0 {
		return false, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, fmt.Errorf("redis: decode %s: %w", name, err)
	}
	return true, nil
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

func nonNilMap(in map[string]float64) map[string]float64 {
	if in == nil {
		return map[string]float64{}
	}
	return in
}

var _ domainpricing.ConfigStore = (*ConfigStore)(nil)
