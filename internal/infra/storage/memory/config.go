package memory

import (
	"context"
	"sync"

	domainpricing "directstay/internal/domain/pricing"
)

// ConfigStore keeps the admin pricing configuration in process memory.
type ConfigStore struct {
	mu        sync.RWMutex
	rules     *domainpricing.RuleSet
	discounts []domainpricing.CustomDiscount
	cleaning  map[string]float64
	base      map[string]float64
	flat      []domainpricing.FlatRateOverride
}

func NewConfigStore() *ConfigStore {
	return &ConfigStore{}
}

func (s *ConfigStore) PricingRules(context.Context) (domainpricing.RuleSet, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.rules == nil {
		return domainpricing.DefaultRuleSet(), nil
	}
	return cloneRules(*s.rules), nil
}

func (s *ConfigStore) CustomDiscounts(context.Context) ([]domainpricing.CustomDiscount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domainpricing.CustomDiscount{}, s.discounts...), nil
}

func (s *ConfigStore) CleaningFees(context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.cleaning), nil
}

func (s *ConfigStore) BasePriceOverrides(context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneMap(s.base), nil
}

func (s *ConfigStore) FlatRateOverrides(context.Context) ([]domainpricing.FlatRateOverride, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domainpricing.FlatRateOverride{}, s.flat...), nil
}

func (s *ConfigStore) SavePricingRules(_ context.Context, rules domainpricing.RuleSet) error {
	if err := rules.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	clone := cloneRules(rules)
	s.rules = &clone
	return nil
}

func (s *ConfigStore) ResetPricingRules(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules = nil
	return nil
}

func (s *ConfigStore) SaveCustomDiscounts(_ context.Context, discounts []domainpricing.CustomDiscount) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.discounts = append([]domainpricing.CustomDiscount{}, discounts...)
	return nil
}

func (s *ConfigStore) SaveCleaningFees(_ context.Context, fees map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleaning = cloneMap(fees)
	return nil
}

func (s *ConfigStore) SaveBasePriceOverrides(_ context.Context, overrides map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.base = cloneMap(overrides)
	return nil
}

func (s *ConfigStore) SaveFlatRateOverrides(_ context.Context, overrides []domainpricing.FlatRateOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flat = append([]domainpricing.FlatRateOverride{}, overrides...)
	return nil
}

func cloneMap(in map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneRules(in domainpricing.RuleSet) domainpricing.RuleSet {
	out := in
	out.Weekdays = make(map[int]domainpricing.WeekdayRule, len(in.Weekdays))
	for k, v := range in.Weekdays {
		out.Weekdays[k] = v
	}
	out.Seasonal = make([]domainpricing.SeasonalRule, 0, len(in.Seasonal))
	for _, rule := range in.Seasonal {
		rule.Months = append([]int(nil), rule.Months...)
		out.Seasonal = append(out.Seasonal, rule)
	}
	return out
}

var _ domainpricing.ConfigStore = (*ConfigStore)(nil)
