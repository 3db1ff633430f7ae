package provider

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	domainlistings "directstay/internal/domain/listings"
)

// ListingClient reads property profiles from the listing provider, falling back to stale cache entries.
type ListingClient struct {
	Client  *http.Client
	BaseURL string
	APIKey  string
	Cache   *Cache[domainlistings.Listing]
	Logger  *slog.Logger
}

type listingPayload struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	BaseNightlyRate float64 `json:"base_nightly_rate"`
	CleaningFee     float64 `json:"cleaning_fee"`
	Currency        string  `json:"currency"`
	MinStay         int     `json:"min_stay"`
	MaxGuests       int     `json:"max_guests"`
}

func (c *ListingClient) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	if c == nil || strings.TrimSpace(c.BaseURL) == "" {
		return nil, ErrClientNotConfigured
	}
	key := string(id)
	var cached domainlistings.Listing
	var fresh, hit bool
	if c.Cache != nil {
		cached, fresh, hit = c.Cache.Get(key)
	}
	if hit && fresh {
		return &cached, nil
	}

	var payload listingPayload
	endpoint := strings.TrimRight(c.BaseURL, "/") + "/listings/" + url.PathEscape(key)
	err := getJSON(ctx, c.httpClient(), endpoint, c.APIKey, &payload)
	if errors.Is(err, errNotFound) {
		return nil, domainlistings.ErrListingNotFound
	}
	if err != nil {
		if hit {
			c.logWarn("serving stale listing", key, err)
			return &cached, nil
		}
		return nil, err
	}
	if payload.ID == "" {
		payload.ID = key
	}
	listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
		ID:              domainlistings.ListingID(payload.ID),
		Title:           payload.Title,
		BaseNightlyRate: payload.BaseNightlyRate,
		CleaningFee:     payload.CleaningFee,
		Currency:        payload.Currency,
		MinStay:         payload.MinStay,
		MaxGuests:       payload.MaxGuests,
	})
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		c.Cache.Put(key, *listing)
	}
	return listing, nil
}

func (c *ListingClient) httpClient() *http.Client {
	if c.Client != nil {
		return c.Client
	}
	return http.DefaultClient
}

func (c *ListingClient) logWarn(msg, propertyID string, err error) {
	if c.Logger != nil {
		c.Logger.Warn(msg, "property_id", propertyID, "error", err)
	}
}

var _ domainlistings.Repository = (*ListingClient)(nil)
