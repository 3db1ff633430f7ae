package provider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	domainpricing "directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/money"
)

const DefaultRateTTL = time.Hour

var ErrClientNotConfigured = errors.New("provider: base url not configured")

// RateClient fetches base/min/max nightly prices from the dynamic pricing provider.
type RateClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Cache   *Cache[domainpricing.ProviderRate]
	Logger  *slog.Logger
}

type ratePayload struct {
	Base     float64 `json:"base"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Currency string  `json:"currency"`
}

// ListingRate serves fresh cache hits directly. On upstream failure a stale entry wins over an error;
// a definitive 404 is never masked by the cache.
func (c *RateClient) ListingRate(ctx context.Context, propertyID string) (domainpricing.ProviderRate, error) {
	var zero domainpricing.ProviderRate
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return zero, ErrClientNotConfigured
	}
	cached, fresh, hit := c.lookup(propertyID)
	if hit && fresh {
		return cached, nil
	}

	rate, err := c.fetch(ctx, propertyID)
	switch {
	case err == nil:
		if c.Cache != nil {
			c.Cache.Put(propertyID, rate)
		}
		return rate, nil
	case errors.Is(err, domainpricing.ErrRateNotConfigured):
		if c.Cache != nil {
			c.Cache.Delete(propertyID)
		}
		return zero, err
	case hit:
		c.logWarn("serving stale provider rate", propertyID, err)
		return cached, nil
	default:
		c.logWarn("provider rate unavailable", propertyID, err)
		return zero, fmt.Errorf("%w: %v", domainpricing.ErrRateUnavailable, err)
	}
}

func (c *RateClient) lookup(propertyID string) (domainpricing.ProviderRate, bool, bool) {
	if c.Cache == nil {
		return domainpricing.ProviderRate{}, false, false
	}
	return c.Cache.Get(propertyID)
}

func (c *RateClient) fetch(ctx context.Context, propertyID string) (domainpricing.ProviderRate, error) {
	var zero domainpricing.ProviderRate
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/listings/" + url.PathEscape(propertyID) + "/prices"
	var payload ratePayload
	if err := getJSON(ctx, c.httpClient(), endpoint, c.APIKey, &payload); err != nil {
		if errors.Is(err, errNotFound) {
			return zero, domainpricing.ErrRateNotConfigured
		}
		return zero, err
	}
	currency := strings.ToUpper(strings.TrimSpace(payload.Currency))
	if currency == "" {
		currency = "USD"
	}
	if payload.Base <= 0 {
		return zero, fmt.Errorf("provider: non-positive base price %.2f", payload.Base)
	}
	return domainpricing.ProviderRate{
		Base: money.FromMajor(payload.Base, currency),
		Min:  money.FromMajor(payload.Min, currency),
		Max:  money.FromMajor(payload.Max, currency),
	}, nil
}

func (c *RateClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *RateClient) logWarn(msg, propertyID string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "property_id", propertyID, "error", err)
	}
}

var errNotFound = errors.New("provider: not found")

func getJSON(ctx context.Context, client *http.Client, endpoint, apiKey string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return errNotFound
	}
	if resp.StatusCode >= http.StatusBadRequest {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("provider returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ domainpricing.RateProvider = (*RateClient)(nil)
