package admin

import (
	"context"
	"errors"
	"testing"
	"time"

	"directstay/internal/app/uow"
	"directstay/internal/app/validation"
	domainpricing "directstay/internal/domain/pricing"
	domainpromo "directstay/internal/domain/promo"
	"directstay/internal/infra/storage/memory"
)

func newUnitContext(t *testing.T) (context.Context, memory.Factory) {
	t.Helper()
	factory := memory.Factory{
		Bookings: memory.NewBookingRepository(),
		Promos:   memory.NewPromoRepository(),
		Invoices: memory.NewInvoiceRepository(),
	}
	unit, err := factory.Begin(context.Background(), uow.TxOptions{})
	if err != nil {
		t.Fatalf("begin: %v", err)
	}
	return uow.ContextWithUnitOfWork(context.Background(), unit), factory
}

func TestCreateListDeletePromo(t *testing.T) {
	ctx, factory := newUnitContext(t)
	now := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	create := &CreatePromoHandler{NewID: func() string { return "promo-1" }, Now: func() time.Time { return now }}

	created, err := create.Handle(ctx, CreatePromoCommand{Code: " summer10 ", DiscountType: "percentage", DiscountValue: 10})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Code != "SUMMER10" || created.PropertyID != domainpromo.Wildcard || created.ID != "promo-1" {
		t.Fatalf("unexpected promo %+v", created)
	}

	if _, err := create.Handle(ctx, CreatePromoCommand{Code: "SUMMER10", DiscountType: "flat", DiscountValue: 5}); !errors.Is(err, domainpromo.ErrDuplicateCode) {
		t.Fatalf("expected duplicate error, got %v", err)
	}

	list := &ListPromosHandler{UoWFactory: factory}
	all, err := list.Handle(context.Background(), ListPromosQuery{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all.Items) != 1 {
		t.Fatalf("expected one promo, got %d", len(all.Items))
	}

	if _, err := (DeletePromoHandler{}).Handle(ctx, DeletePromoCommand{Code: "summer10"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := (DeletePromoHandler{}).Handle(ctx, DeletePromoCommand{Code: "summer10"}); !errors.Is(err, domainpromo.ErrNotFound) {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestCreatePromoRequiresUnit(t *testing.T) {
	h := &CreatePromoHandler{}
	if _, err := h.Handle(context.Background(), CreatePromoCommand{Code: "X", DiscountType: "flat", DiscountValue: 1}); !errors.Is(err, uow.ErrUnitOfWorkMissing) {
		t.Fatalf("expected ErrUnitOfWorkMissing, got %v", err)
	}
}

func TestConfigServiceRoundTrip(t *testing.T) {
	svc := ConfigService{Store: memory.NewConfigStore(), Validator: validation.New()}
	ctx := context.Background()

	if _, err := svc.Put(ctx, CleaningFees, []byte(`{"villa":150,"loft":85.5}`)); err != nil {
		t.Fatalf("put cleaning fees: %v", err)
	}
	got, err := svc.Get(ctx, CleaningFees)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if fees := got.(map[string]float64); fees["loft"] != 85.5 {
		t.Fatalf("unexpected fees %v", fees)
	}

	rules := []byte(`{"weekdays":{"6":{"multiplier":1.5,"label":"saturday"}},"seasonal":[],"holiday_multiplier":1.4}`)
	if _, err := svc.Put(ctx, PricingRules, rules); err != nil {
		t.Fatalf("put rules: %v", err)
	}
	stored, _ := svc.Get(ctx, PricingRules)
	if stored.(domainpricing.RuleSet).HolidayMultiplier != 1.4 {
		t.Fatalf("rules not stored: %+v", stored)
	}
	reset, err := svc.ResetPricingRules(ctx)
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	if reset.HolidayMultiplier != domainpricing.DefaultRuleSet().HolidayMultiplier {
		t.Fatalf("expected defaults after reset, got %+v", reset)
	}
}

func TestConfigServiceRejectsInvalidPayloads(t *testing.T) {
	svc := ConfigService{Store: memory.NewConfigStore(), Validator: validation.New()}
	ctx := context.Background()
	cases := map[string]struct {
		name string
		body string
	}{
		"negative fee":        {CleaningFees, `{"villa":-1}`},
		"zero multiplier":     {PricingRules, `{"weekdays":{},"seasonal":[],"holiday_multiplier":0}`},
		"bad discount type":   {CustomDiscounts, `[{"property_id":"*","type":"bogus","value":5}]`},
		"override ends early": {FlatRateOverrides, `[{"property_id":"villa","start":"2025-07-10T00:00:00Z","end":"2025-07-01T00:00:00Z","rate":300}]`},
		"malformed json":      {BasePriceOverrides, `{`},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := svc.Put(ctx, tc.name, []byte(tc.body)); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
	if _, err := svc.Get(ctx, "taxes"); !errors.Is(err, ErrUnknownConfig) {
		t.Fatalf("expected ErrUnknownConfig, got %v", err)
	}
}
