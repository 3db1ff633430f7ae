package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	domainpricing "directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/money"
)

// RateTable stands in for the dynamic pricing provider in local mode.
type RateTable struct {
	mu    sync.RWMutex
	rates map[string]domainpricing.ProviderRate
}

func NewRateTable() *RateTable {
	return &RateTable{rates: make(map[string]domainpricing.ProviderRate)}
}

func (t *RateTable) Set(propertyID string, rate domainpricing.ProviderRate) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rates[propertyID] = rate
}

func (t *RateTable) ListingRate(_ context.Context, propertyID string) (domainpricing.ProviderRate, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rate, ok := t.rates[propertyID]
	if !ok {
		return domainpricing.ProviderRate{}, domainpricing.ErrRateNotConfigured
	}
	return rate, nil
}

type rateFixture struct {
	ID       string `json:"id"`
	Currency string `json:"currency"`
	Provider *struct {
		Base float64 `json:"base"`
		Min  float64 `json:"min"`
		Max  float64 `json:"max"`
	} `json:"provider"`
}

// LoadFixtures reads the optional "provider" block of each listing fixture.
func (t *RateTable) LoadFixtures(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var fixtures []rateFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return 0, fmt.Errorf("memory: decode rate fixtures: %w", err)
	}
	loaded := 0
	for _, f := range fixtures {
		if f.Provider == nil || f.Provider.Base <= 0 {
			continue
		}
		currency := strings.ToUpper(strings.TrimSpace(f.Currency))
		if currency == "" {
			currency = "USD"
		}
		t.Set(f.ID, domainpricing.ProviderRate{
			Base: money.FromMajor(f.Provider.Base, currency),
			Min:  money.FromMajor(f.Provider.Min, currency),
			Max:  money.FromMajor(f.Provider.Max, currency),
		})
		loaded++
	}
	return loaded, nil
}

var _ domainpricing.RateProvider = (*RateTable)(nil)
