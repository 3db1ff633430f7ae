package pricing

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"directstay/internal/domain/listings"
	"directstay/internal/domain/promo"
	"directstay/internal/domain/shared/discount"
)

type rateStub struct {
	rate ProviderRate
	err  error
}

func (s rateStub) ListingRate(context.Context, string) (ProviderRate, error) {
	return s.rate, s.err
}

type configStub struct {
	rules     *RuleSet
	discounts []CustomDiscount
	cleaning  map[string]float64
	base      map[string]float64
	flat      []FlatRateOverride
	err       error
}

func (s configStub) PricingRules(context.Context) (RuleSet, error) {
	if s.err != nil {
		return RuleSet{}, s.err
	}
	if s.rules != nil {
		return *s.rules, nil
	}
	return DefaultRuleSet(), nil
}

func (s configStub) CustomDiscounts(context.Context) ([]CustomDiscount, error) {
	return s.discounts, s.err
}

func (s configStub) CleaningFees(context.Context) (map[string]float64, error) {
	return s.cleaning, s.err
}

func (s configStub) BasePriceOverrides(context.Context) (map[string]float64, error) {
	return s.base, s.err
}

func (s configStub) FlatRateOverrides(context.Context) ([]FlatRateOverride, error) {
	return s.flat, s.err
}

type promoStub struct {
	result promo.Validation
	err    error
}

func (s promoStub) Validate(context.Context, string, string) (promo.Validation, error) {
	return s.result, s.err
}

func testListing(t *testing.T) *listings.Listing {
	t.Helper()
	l, err := listings.NewListing(listings.CreateListingParams{
		ID:              "prop-A",
		Title:           "Harbor loft",
		BaseNightlyRate: 90,
		CleaningFee:     150,
		MaxGuests:       4,
	})
	if err != nil {
		t.Fatalf("listing: %v", err)
	}
	return l
}

func TestEngineQuoteSingleMidweekNight(t *testing.T) {
	engine := &Engine{
		Rates:  rateStub{rate: ProviderRate{Base: usd(100), Min: usd(70), Max: usd(200)}},
		Config: configStub{},
	}
	got, err := engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-03-10", "2025-03-11")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.NightlyRate.Amount != usd(80).Amount || got.Subtotal.Amount != usd(80).Amount {
		t.Fatalf("unexpected nightly/subtotal %v/%v", got.NightlyRate.Major(), got.Subtotal.Major())
	}
	if got.LengthDiscount != nil {
		t.Fatalf("one night must not get a length discount")
	}
	if got.DirectBookingDiscount.Amount != usd(8).Amount {
		t.Fatalf("direct booking: got %v", got.DirectBookingDiscount.Major())
	}
	if got.Total.Amount != usd(222).Amount {
		t.Fatalf("total: got %v, want 222", got.Total.Major())
	}
	if len(got.DailyRates) != 1 || got.DailyRates[0].Label != "20% off" {
		t.Fatalf("unexpected daily rates %+v", got.DailyRates)
	}
}

func TestEngineQuoteIsDeterministic(t *testing.T) {
	engine := &Engine{
		Rates: rateStub{rate: ProviderRate{Base: usd(100)}},
		Config: configStub{discounts: []CustomDiscount{
			{PropertyID: "*", Type: discount.Percentage, Value: 5, Label: "Spring"},
		}},
		Promos: promoStub{result: promo.Validation{Valid: true, Code: "SAVE", DiscountType: discount.Flat, DiscountValue: 25}},
	}
	input := QuoteInput{Listing: testListing(t), Range: stay(t, "2025-06-27", "2025-07-06"), PromoCode: "save"}
	first, err := engine.Quote(context.Background(), input)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	second, err := engine.Quote(context.Background(), input)
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("repeated quotes differ:\n%+v\n%+v", first, second)
	}
	if first.AppliedPromoCode() != "SAVE" || first.CustomDiscount == nil || first.LengthDiscount == nil {
		t.Fatalf("expected weekly, custom and promo discounts, got %+v", first.Discounts())
	}
}

func TestEngineQuoteFallsBackWhenProviderFails(t *testing.T) {
	engine := &Engine{
		Rates:  rateStub{err: ErrRateUnavailable},
		Config: configStub{},
	}
	got, err := engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-07-03", "2025-07-06")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if !got.Fallback || got.DailyRates != nil {
		t.Fatalf("expected fallback without daily rates, got %+v", got)
	}
	if got.Subtotal.Amount != usd(270).Amount || got.NightlyRate.Amount != usd(90).Amount {
		t.Fatalf("expected 90 x 3 nights, got %v", got.Subtotal.Major())
	}
}

func TestEngineQuoteSwallowsPromoAndConfigErrors(t *testing.T) {
	engine := &Engine{
		Rates:  rateStub{rate: ProviderRate{Base: usd(100), Min: usd(70), Max: usd(200)}},
		Config: configStub{err: errors.New("redis down")},
		Promos: promoStub{err: errors.New("mongo down")},
	}
	got, err := engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-03-10", "2025-03-11"), PromoCode: "ANY"})
	if err != nil {
		t.Fatalf("quote must not fail on side lookups: %v", err)
	}
	if got.PromoDiscount != nil || got.Total.Amount != usd(222).Amount {
		t.Fatalf("expected defaults without promo, got total %v", got.Total.Major())
	}
}

func TestEngineQuoteReportsPromoRejection(t *testing.T) {
	engine := &Engine{
		Promos: promoStub{result: promo.Validation{Code: "OLD", Reason: promo.ReasonExpired}},
	}
	got, err := engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-03-10", "2025-03-11"), PromoCode: "OLD"})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.PromoRejection != promo.ReasonExpired || got.PromoDiscount != nil {
		t.Fatalf("expected rejection reason, got %+v", got)
	}
}

func TestEngineAdminDiscountsPrecedeDefaults(t *testing.T) {
	engine := &Engine{
		Config: configStub{discounts: []CustomDiscount{{ID: "admin", PropertyID: "prop-A", Type: discount.Flat, Value: 10}}},
		DefaultDiscounts: []CustomDiscount{
			{ID: "default", PropertyID: "*", Type: discount.Percentage, Value: 50},
		},
	}
	got, err := engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-03-10", "2025-03-11")})
	if err != nil {
		t.Fatalf("quote: %v", err)
	}
	if got.CustomDiscount == nil || got.CustomDiscount.Amount.Amount != usd(10).Amount {
		t.Fatalf("expected admin discount to win, got %+v", got.CustomDiscount)
	}

	engine.Strategy = BestOf
	got, _ = engine.Quote(context.Background(), QuoteInput{Listing: testListing(t), Range: stay(t, "2025-03-10", "2025-03-11")})
	if got.CustomDiscount.Amount.Amount == usd(10).Amount {
		t.Fatalf("best of should pick the larger default discount, got %+v", got.CustomDiscount)
	}
}

func TestEngineScheduleUsesStoredRules(t *testing.T) {
	rules := DefaultRuleSet()
	rules.Weekdays = map[int]WeekdayRule{}
	engine := &Engine{
		Rates:  rateStub{rate: ProviderRate{Base: usd(100)}},
		Config: configStub{rules: &rules},
	}
	totals, err := engine.Schedule(context.Background(), testListing(t), stay(t, "2025-03-07", "2025-03-09"))
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	if totals.Subtotal.Amount != usd(200).Amount {
		t.Fatalf("expected no weekend uplift with stored rules, got %v", totals.Subtotal.Major())
	}
}
