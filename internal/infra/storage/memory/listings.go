package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	domainlistings "directstay/internal/domain/listings"
)

// ListingRepository serves property profiles from memory, typically loaded from a fixtures file.
type ListingRepository struct {
	mu    sync.RWMutex
	items map[domainlistings.ListingID]*domainlistings.Listing
}

func NewListingRepository() *ListingRepository {
	return &ListingRepository{items: make(map[domainlistings.ListingID]*domainlistings.Listing)}
}

type listingFixture struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	BaseNightlyRate float64 `json:"base_nightly_rate"`
	CleaningFee     float64 `json:"cleaning_fee"`
	Currency        string  `json:"currency"`
	MinStay         int     `json:"min_stay"`
	MaxGuests       int     `json:"max_guests"`
}

// LoadFixtures reads a JSON array of listings and adds them to the repository.
func (r *ListingRepository) LoadFixtures(path string) (int, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	var fixtures []listingFixture
	if err := json.Unmarshal(raw, &fixtures); err != nil {
		return 0, fmt.Errorf("memory: decode listing fixtures: %w", err)
	}
	for _, f := range fixtures {
		listing, err := domainlistings.NewListing(domainlistings.CreateListingParams{
			ID:              domainlistings.ListingID(f.ID),
			Title:           f.Title,
			BaseNightlyRate: f.BaseNightlyRate,
			CleaningFee:     f.CleaningFee,
			Currency:        f.Currency,
			MinStay:         f.MinStay,
			MaxGuests:       f.MaxGuests,
		})
		if err != nil {
			return 0, fmt.Errorf("memory: listing fixture %q: %w", f.ID, err)
		}
		r.Save(listing)
	}
	return len(fixtures), nil
}

func (r *ListingRepository) ByID(ctx context.Context, id domainlistings.ListingID) (*domainlistings.Listing, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	listing, ok := r.items[id]
	if !ok {
		return nil, domainlistings.ErrListingNotFound
	}
	clone := *listing
	return &clone, nil
}

func (r *ListingRepository) Save(listing *domainlistings.Listing) {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *listing
	r.items[listing.ID] = &clone
}

var _ domainlistings.Repository = (*ListingRepository)(nil)
