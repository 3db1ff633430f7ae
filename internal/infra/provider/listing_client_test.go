package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	domainlistings "directstay/internal/domain/listings"
)

func TestListingClientByID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/listings/missing" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"id":"villa","title":"Villa","base_nightly_rate":180,"cleaning_fee":95.5,"currency":"USD","min_stay":2,"max_guests":6}`))
	}))
	defer srv.Close()

	client := &ListingClient{BaseURL: srv.URL}
	listing, err := client.ByID(context.Background(), "villa")
	if err != nil {
		t.Fatalf("by id: %v", err)
	}
	if listing.BaseNightlyRate.Amount != 18000 || listing.CleaningFee.Amount != 9550 || listing.MinStay != 2 || listing.MaxGuests != 6 {
		t.Fatalf("unexpected listing %+v", listing)
	}

	if _, err := client.ByID(context.Background(), "missing"); !errors.Is(err, domainlistings.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}
