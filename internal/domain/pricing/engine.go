package pricing

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"directstay/internal/domain/listings"
	"directstay/internal/domain/promo"
	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/money"
)

var ErrListingRequired = errors.New("pricing: listing is required")

type QuoteInput struct {
	Listing   *listings.Listing
	Range     daterange.DateRange
	PromoCode string
}

type Calculator interface {
	Quote(ctx context.Context, input QuoteInput) (PriceBreakdown, error)
}

// Snapshot is everything a quote reads, captured once so the computation itself is pure.
type Snapshot struct {
	PropertyID          string
	Currency            string
	ListingRate         money.Money
	ListingCleaningFee  money.Money
	Rules               RuleSet
	Provider            *ProviderRate
	BasePriceOverride   *float64
	FlatOverrides       []FlatRateOverride
	CustomDiscounts     []CustomDiscount
	Strategy            SelectionStrategy
	CleaningFeeOverride *float64
	Promo               *promo.Validation
}

// Compute runs the pipeline on a snapshot. Equal snapshots give equal breakdowns.
func Compute(s Snapshot, r daterange.DateRange) (PriceBreakdown, error) {
	if err := r.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	nights := r.Nights()
	schedule, ok := DailySchedule(s, r)
	if !ok {
		schedule = nil
	}
	stay := Aggregate(schedule, s.ListingRate, nights)

	var custom *CustomDiscount
	intermediate := Compose(stay.Subtotal, nights, nil, nil).Total
	strategy := s.Strategy
	if !strategy.Valid() {
		strategy = FirstMatch
	}
	if d, found := strategy.Select(s.CustomDiscounts, s.PropertyID, r, intermediate); found {
		custom = &d
	}
	composed := Compose(stay.Subtotal, nights, custom, s.Promo)

	cleaning := CleaningFee(s.CleaningFeeOverride, s.ListingCleaningFee)
	breakdown := PriceBreakdown{
		PropertyID:            s.PropertyID,
		Currency:              s.Currency,
		Range:                 r,
		Nights:                nights,
		NightlyRate:           stay.NightlyRate,
		Subtotal:              stay.Subtotal,
		DirectBookingDiscount: composed.DirectBooking,
		LengthDiscount:        composed.Length,
		CustomDiscount:        composed.Custom,
		PromoDiscount:         composed.Promo,
		CleaningFee:           cleaning,
		ServiceFee:            money.Zero(s.Currency),
		Total:                 money.Money{Amount: composed.Total.Amount + cleaning.Amount, Currency: s.Currency},
		DailyRates:            stay.DailyRates,
		Fallback:              stay.Fallback,
	}
	if s.Promo != nil && !s.Promo.Valid {
		breakdown.PromoRejection = s.Promo.Reason
	}
	if err := breakdown.Validate(); err != nil {
		return PriceBreakdown{}, err
	}
	return breakdown, nil
}

// Engine gathers snapshots from the collaborators. Every lookup failure degrades instead of failing the quote.
type Engine struct {
	Rates  RateProvider
	Config ConfigSource
	Promos PromoValidator
	// DefaultDiscounts are tried after the admin-configured list.
	DefaultDiscounts []CustomDiscount
	Strategy         SelectionStrategy
	Logger           *slog.Logger
}

func (e *Engine) Quote(ctx context.Context, input QuoteInput) (PriceBreakdown, error) {
	snapshot, err := e.Snapshot(ctx, input)
	if err != nil {
		return PriceBreakdown{}, err
	}
	return Compute(snapshot, input.Range)
}

// Schedule returns the undiscounted stay totals used by admin previews and exports.
func (e *Engine) Schedule(ctx context.Context, listing *listings.Listing, r daterange.DateRange) (StayTotals, error) {
	snapshot, err := e.Snapshot(ctx, QuoteInput{Listing: listing, Range: r})
	if err != nil {
		return StayTotals{}, err
	}
	if err := r.Validate(); err != nil {
		return StayTotals{}, err
	}
	schedule, _ := DailySchedule(snapshot, r)
	return Aggregate(schedule, snapshot.ListingRate, r.Nights()), nil
}

func (e *Engine) Snapshot(ctx context.Context, input QuoteInput) (Snapshot, error) {
	listing := input.Listing
	if listing == nil {
		return Snapshot{}, ErrListingRequired
	}
	propertyID := string(listing.ID)
	s := Snapshot{
		PropertyID:         propertyID,
		Currency:           listing.Currency,
		ListingRate:        listing.BaseNightlyRate,
		ListingCleaningFee: listing.CleaningFee,
		Rules:              DefaultRuleSet(),
		Strategy:           e.Strategy,
	}

	if e.Config != nil {
		if rules, err := e.Config.PricingRules(ctx); err != nil {
			e.logWarn("pricing rules unavailable, using defaults", propertyID, err)
		} else if err := rules.Validate(); err != nil {
			e.logWarn("stored pricing rules invalid, using defaults", propertyID, err)
		} else {
			s.Rules = rules
		}
		if overrides, err := e.Config.FlatRateOverrides(ctx); err != nil {
			e.logWarn("flat rate overrides unavailable", propertyID, err)
		} else {
			for _, o := range overrides {
				if o.PropertyID == propertyID {
					s.FlatOverrides = append(s.FlatOverrides, o)
				}
			}
		}
		if overrides, err := e.Config.BasePriceOverrides(ctx); err != nil {
			e.logWarn("base price overrides unavailable", propertyID, err)
		} else if v, ok := overrides[propertyID]; ok {
			s.BasePriceOverride = &v
		}
		if fees, err := e.Config.CleaningFees(ctx); err != nil {
			e.logWarn("cleaning fee overrides unavailable", propertyID, err)
		} else if v, ok := fees[propertyID]; ok {
			s.CleaningFeeOverride = &v
		}
		if discounts, err := e.Config.CustomDiscounts(ctx); err != nil {
			e.logWarn("custom discounts unavailable, using defaults only", propertyID, err)
		} else {
			s.CustomDiscounts = append(s.CustomDiscounts, discounts...)
		}
	}
	s.CustomDiscounts = append(s.CustomDiscounts, e.DefaultDiscounts...)

	s.Provider = e.providerRate(ctx, propertyID, listing.Currency)

	if code := strings.TrimSpace(input.PromoCode); code != "" && e.Promos != nil {
		v, err := e.Promos.Validate(ctx, code, propertyID)
		if err != nil {
			e.logWarn("promo validation failed, ignoring code", propertyID, err)
		} else {
			s.Promo = &v
		}
	}
	return s, nil
}

func (e *Engine) providerRate(ctx context.Context, propertyID, currency string) *ProviderRate {
	if e.Rates == nil {
		return nil
	}
	rate, err := e.Rates.ListingRate(ctx, propertyID)
	if err != nil {
		if !errors.Is(err, ErrRateNotConfigured) {
			e.logWarn("rate provider failed, using listing rate", propertyID, err)
		}
		return nil
	}
	if rate.Base.Currency != currency {
		e.logWarn("rate provider currency mismatch, using listing rate", propertyID, money.ErrCurrencyMismatch)
		return nil
	}
	return &rate
}

func (e *Engine) logWarn(msg, propertyID string, err error) {
	if e.Logger == nil {
		return
	}
	e.Logger.Warn(msg, "property_id", propertyID, "error", err)
}

var _ Calculator = (*Engine)(nil)
