package pricing

import (
	"testing"

	"directstay/internal/domain/promo"
	"directstay/internal/domain/shared/discount"
)

func TestComposeDirectBookingExclusivity(t *testing.T) {
	cases := []struct {
		name       string
		nights     int
		wantDirect int64
		wantLength string
	}{
		{"short stay", 3, 100, ""},
		{"weekly", 7, 100, WeeklyDiscountLabel},
		{"monthly", 30, 0, MonthlyDiscountLabel},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := Compose(usd(1000), tc.nights, nil, nil)
			if out.DirectBooking.Amount != usd(tc.wantDirect).Amount {
				t.Fatalf("direct booking: got %v", out.DirectBooking.Major())
			}
			label := ""
			if out.Length != nil {
				label = out.Length.Label
			}
			if label != tc.wantLength {
				t.Fatalf("length label: got %q, want %q", label, tc.wantLength)
			}
		})
	}
	weekly := Compose(usd(1000), 7, nil, nil)
	if weekly.Total.Amount != usd(700).Amount {
		t.Fatalf("weekly total should subtract both discounts off the subtotal, got %v", weekly.Total.Major())
	}
	monthly := Compose(usd(1000), 30, nil, nil)
	if monthly.Total.Amount != usd(700).Amount {
		t.Fatalf("monthly total should be 700, got %v", monthly.Total.Major())
	}
}

func TestComposeCustomPercentageUsesIntermediateTotal(t *testing.T) {
	custom := &CustomDiscount{PropertyID: "*", Type: discount.Percentage, Value: 10}
	out := Compose(usd(100), 1, custom, nil)
	if out.Custom == nil || out.Custom.Amount.Amount != usd(9).Amount {
		t.Fatalf("expected 9.00 off the 90.00 intermediate total, got %+v", out.Custom)
	}
	if out.Custom.Label != "10% off" {
		t.Fatalf("expected generated label, got %q", out.Custom.Label)
	}
}

func TestComposeFlatCustomDiscountIsNotClamped(t *testing.T) {
	custom := &CustomDiscount{PropertyID: "*", Type: discount.Flat, Value: 200, Label: "Owner special"}
	out := Compose(usd(100), 1, custom, nil)
	if out.Custom.Amount.Amount != usd(200).Amount {
		t.Fatalf("expected full 200.00 custom discount, got %v", out.Custom.Amount.Major())
	}
	if out.Total.Amount != usd(-110).Amount {
		t.Fatalf("expected running total to go negative, got %v", out.Total.Major())
	}
}

func TestComposeFlatPromoIsClampedToRunningTotal(t *testing.T) {
	code := &promo.Validation{Valid: true, Code: "BIG", DiscountType: discount.Flat, DiscountValue: 500}
	out := Compose(usd(100), 1, nil, code)
	if out.Promo == nil || out.Promo.Amount.Amount != usd(90).Amount {
		t.Fatalf("expected promo clamped to 90.00, got %+v", out.Promo)
	}
	if out.Total.Amount != 0 {
		t.Fatalf("expected zero total, got %v", out.Total.Major())
	}
	if out.Promo.Code != "BIG" {
		t.Fatalf("expected code echo, got %q", out.Promo.Code)
	}
}

func TestComposePromoPercentageAfterCustom(t *testing.T) {
	custom := &CustomDiscount{PropertyID: "*", Type: discount.Flat, Value: 40}
	code := &promo.Validation{Valid: true, Code: "HALF", DiscountType: discount.Percentage, DiscountValue: 50, Label: "HALF (50% off)"}
	out := Compose(usd(100), 1, custom, code)
	if out.Promo.Amount.Amount != usd(25).Amount {
		t.Fatalf("expected 25.00 off the post-custom 50.00, got %v", out.Promo.Amount.Major())
	}
	if out.Total.Amount != usd(25).Amount {
		t.Fatalf("expected 25.00 total, got %v", out.Total.Major())
	}
}

func TestComposeIgnoresInvalidPromo(t *testing.T) {
	code := &promo.Validation{Code: "OLD", Reason: promo.ReasonExpired}
	out := Compose(usd(100), 1, nil, code)
	if out.Promo != nil {
		t.Fatalf("invalid promo must not apply, got %+v", out.Promo)
	}
}

func TestSelectionStrategies(t *testing.T) {
	r := stay(t, "2025-03-10", "2025-03-12")
	start := day(t, "2025-04-01")
	candidates := []CustomDiscount{
		{ID: "future", PropertyID: "*", Start: &start, Type: discount.Percentage, Value: 50},
		{ID: "other", PropertyID: "prop-B", Type: discount.Percentage, Value: 40},
		{ID: "small", PropertyID: "*", Type: discount.Percentage, Value: 5},
		{ID: "flat", PropertyID: "prop-A", Type: discount.Flat, Value: 30},
	}
	got, ok := FirstMatch.Select(candidates, "prop-A", r, usd(200))
	if !ok || got.ID != "small" {
		t.Fatalf("first match: got %q", got.ID)
	}
	got, ok = BestOf.Select(candidates, "prop-A", r, usd(200))
	if !ok || got.ID != "flat" {
		t.Fatalf("best of: got %q", got.ID)
	}
	if _, ok := FirstMatch.Select(candidates[:2], "prop-A", r, usd(200)); ok {
		t.Fatal("expected no match")
	}
}

func TestCustomDiscountEndBound(t *testing.T) {
	end := day(t, "2025-03-11")
	d := CustomDiscount{PropertyID: "prop-A", End: &end}
	if d.Matches("prop-A", stay(t, "2025-03-10", "2025-03-12")) {
		t.Fatal("checkout after end must not match")
	}
	if !d.Matches("prop-A", stay(t, "2025-03-10", "2025-03-11")) {
		t.Fatal("checkout on end must match")
	}
}
