package listings

import (
	"context"
	"errors"
	"strings"

	"directstay/internal/domain/shared/money"
)

var (
	ErrListingNotFound = errors.New("listings: not found")
	ErrIDRequired      = errors.New("listings: id is required")
	ErrNightlyRate     = errors.New("listings: nightly rate must be non-negative")
	ErrCleaningFee     = errors.New("listings: cleaning fee must be non-negative")
	ErrGuestsLimit     = errors.New("listings: max guests must be at least 1")
)

type ListingID string

// Listing is the pricing profile of a property as published by the listing provider.
type Listing struct {
	ID              ListingID
	Title           string
	BaseNightlyRate money.Money
	CleaningFee     money.Money
	Currency        string
	MinStay         int
	MaxGuests       int
}

type Repository interface {
	ByID(ctx context.Context, id ListingID) (*Listing, error)
}

type CreateListingParams struct {
	ID              ListingID
	Title           string
	BaseNightlyRate float64
	CleaningFee     float64
	Currency        string
	MinStay         int
	MaxGuests       int
}

func NewListing(params CreateListingParams) (*Listing, error) {
	if strings.TrimSpace(string(params.ID)) == "" {
		return nil, ErrIDRequired
	}
	if params.BaseNightlyRate < 0 {
		return nil, ErrNightlyRate
	}
	if params.CleaningFee < 0 {
		return nil, ErrCleaningFee
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}
	if _, err := money.New(0, currency); err != nil {
		return nil, err
	}
	maxGuests := params.MaxGuests
	if maxGuests == 0 {
		maxGuests = 1
	}
	if maxGuests < 1 {
		return nil, ErrGuestsLimit
	}
	minStay := params.MinStay
	if minStay < 1 {
		minStay = 1
	}
	return &Listing{
		ID:              params.ID,
		Title:           strings.TrimSpace(params.Title),
		BaseNightlyRate: money.FromMajor(params.BaseNightlyRate, currency),
		CleaningFee:     money.FromMajor(params.CleaningFee, currency),
		Currency:        currency,
		MinStay:         minStay,
		MaxGuests:       maxGuests,
	}, nil
}
