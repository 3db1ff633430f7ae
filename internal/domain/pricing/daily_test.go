package pricing

import (
	"testing"
	"time"

	"directstay/internal/domain/shared/daterange"
	"directstay/internal/domain/shared/money"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	d, err := daterange.ParseDay(raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return d
}

func stay(t *testing.T, in, out string) daterange.DateRange {
	t.Helper()
	r, err := daterange.New(day(t, in), day(t, out))
	if err != nil {
		t.Fatalf("range: %v", err)
	}
	return r
}

func usd(major int64) money.Money {
	return money.Must(major*100, "USD")
}

func providerSnapshot(base, min, max int64) Snapshot {
	return Snapshot{
		PropertyID:         "prop-A",
		Currency:           "USD",
		ListingRate:        usd(90),
		ListingCleaningFee: usd(150),
		Rules:              DefaultRuleSet(),
		Provider:           &ProviderRate{Base: usd(base), Min: usd(min), Max: usd(max)},
		Strategy:           FirstMatch,
	}
}

func TestHolidayName(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2025-12-31", "New Year's"},
		{"2026-01-02", "New Year's"},
		{"2025-02-14", "Valentine's Day"},
		{"2025-01-17", "MLK Weekend"},
		{"2025-05-23", "Memorial Day Weekend"},
		{"2025-05-26", "Memorial Day Weekend"},
		{"2025-07-04", "Fourth of July"},
		{"2025-08-29", "Labor Day Weekend"},
		{"2025-10-31", "Halloween"},
		{"2025-11-24", "Thanksgiving"},
		{"2025-11-30", "Thanksgiving"},
		{"2025-12-25", "Christmas"},
		{"2025-05-22", ""},
		{"2025-03-10", ""},
		{"2025-11-23", ""},
	}
	for _, tc := range cases {
		got, ok := HolidayName(day(t, tc.date))
		if got != tc.want || ok != (tc.want != "") {
			t.Errorf("%s: got (%q, %v), want %q", tc.date, got, ok, tc.want)
		}
	}
}

func TestDailyScheduleHolidayOverridesWeekendLabel(t *testing.T) {
	s := providerSnapshot(100, 0, 0)
	schedule, ok := DailySchedule(s, stay(t, "2025-07-04", "2025-07-05"))
	if !ok || len(schedule) != 1 {
		t.Fatalf("expected one night, got %v (ok=%v)", schedule, ok)
	}
	got := schedule[0]
	if got.Label != "Fourth of July" {
		t.Fatalf("expected holiday label, got %q", got.Label)
	}
	// 100 -> 120 weekend -> 138 summer -> 172 holiday
	if got.Rate.Amount != usd(172).Amount {
		t.Fatalf("expected 172.00, got %v", got.Rate.Major())
	}
}

func TestDailyScheduleMidweekDiscountSkippedOnHoliday(t *testing.T) {
	s := providerSnapshot(100, 0, 0)
	schedule, _ := DailySchedule(s, stay(t, "2025-05-26", "2025-05-27"))
	if schedule[0].Rate.Amount != usd(125).Amount || schedule[0].Label != "Memorial Day Weekend" {
		t.Fatalf("unexpected memorial day rate %+v", schedule[0])
	}
	schedule, _ = DailySchedule(s, stay(t, "2025-03-10", "2025-03-11"))
	if schedule[0].Rate.Amount != usd(80).Amount || schedule[0].Label != "20% off" {
		t.Fatalf("unexpected monday rate %+v", schedule[0])
	}
}

func TestDailyScheduleClampsToProviderBounds(t *testing.T) {
	s := providerSnapshot(100, 90, 110)
	// Monday in March would be 80, Friday 120
	schedule, _ := DailySchedule(s, stay(t, "2025-03-07", "2025-03-11"))
	want := []int64{110, 110, 100, 90}
	for i, w := range want {
		if schedule[i].Rate.Amount != usd(w).Amount {
			t.Errorf("night %d: got %v, want %d", i, schedule[i].Rate.Major(), w)
		}
	}
}

func TestDailyScheduleFlatOverrideBypassesMultipliers(t *testing.T) {
	s := providerSnapshot(100, 0, 300)
	s.FlatOverrides = []FlatRateOverride{{
		PropertyID: "prop-A",
		Start:      day(t, "2025-07-04"),
		End:        day(t, "2025-07-04"),
		Rate:       95.5,
	}}
	schedule, _ := DailySchedule(s, stay(t, "2025-07-03", "2025-07-05"))
	if schedule[1].Rate.Amount != 9550 || schedule[1].Label != "" {
		t.Fatalf("expected verbatim override without label, got %+v", schedule[1])
	}
	if schedule[0].Label != "Fourth of July" {
		t.Fatalf("expected regular pricing around the override, got %+v", schedule[0])
	}
}

func TestDailyScheduleBasePriceOverrideKeepsBounds(t *testing.T) {
	s := providerSnapshot(100, 0, 150)
	override := 200.0
	s.BasePriceOverride = &override
	schedule, _ := DailySchedule(s, stay(t, "2025-03-12", "2025-03-13"))
	if schedule[0].Rate.Amount != usd(150).Amount {
		t.Fatalf("expected override clamped to provider max, got %v", schedule[0].Rate.Major())
	}
}

func TestDailyScheduleWithoutProviderFallsBack(t *testing.T) {
	s := providerSnapshot(100, 0, 0)
	s.Provider = nil
	s.FlatOverrides = []FlatRateOverride{{PropertyID: "prop-A", Start: day(t, "2025-03-10"), End: day(t, "2025-03-10"), Rate: 50}}
	if _, ok := DailySchedule(s, stay(t, "2025-03-10", "2025-03-12")); ok {
		t.Fatal("expected fallback when a night has no rate source")
	}
	schedule, ok := DailySchedule(s, stay(t, "2025-03-10", "2025-03-11"))
	if !ok || schedule[0].Rate.Amount != usd(50).Amount {
		t.Fatalf("expected flat override without provider, got %v (ok=%v)", schedule, ok)
	}
}

func TestAggregate(t *testing.T) {
	fallback := Aggregate(nil, usd(90), 3)
	if !fallback.Fallback || fallback.Subtotal.Amount != usd(270).Amount || fallback.DailyRates != nil {
		t.Fatalf("unexpected fallback totals %+v", fallback)
	}
	schedule := []DailyRate{{Rate: usd(100)}, {Rate: usd(120)}, {Rate: usd(121)}}
	totals := Aggregate(schedule, usd(90), 3)
	if totals.Subtotal.Amount != usd(341).Amount {
		t.Fatalf("expected subtotal 341, got %v", totals.Subtotal.Major())
	}
	if totals.NightlyRate.Amount != usd(114).Amount {
		t.Fatalf("expected average 114, got %v", totals.NightlyRate.Major())
	}
}

func TestRuleSetValidate(t *testing.T) {
	if err := DefaultRuleSet().Validate(); err != nil {
		t.Fatalf("defaults should be valid: %v", err)
	}
	bad := DefaultRuleSet()
	bad.Seasonal = append(bad.Seasonal, SeasonalRule{Months: []int{12}, Multiplier: 1.1})
	if err := bad.Validate(); err == nil {
		t.Fatal("expected month out of range to fail")
	}
	bad = DefaultRuleSet()
	bad.HolidayMultiplier = 0
	if err := bad.Validate(); err == nil {
		t.Fatal("expected zero holiday multiplier to fail")
	}
}
