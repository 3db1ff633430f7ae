package validation

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"directstay/internal/domain/pricing"
)

type sample struct {
	Name   string `json:"name" validate:"required"`
	Guests int    `json:"guests" validate:"gte=1"`
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(context.Background(), sample{})
	if !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid, got %v", err)
	}
	if !strings.Contains(err.Error(), "name is required") || !strings.Contains(err.Error(), "guests failed gte=1") {
		t.Fatalf("unexpected message %q", err.Error())
	}
	if err := v.Validate(context.Background(), &sample{Name: "a", Guests: 2}); err != nil {
		t.Fatalf("expected valid, got %v", err)
	}
	if err := v.Validate(context.Background(), "not a struct"); err != nil {
		t.Fatalf("non-struct values pass, got %v", err)
	}
}

func TestSliceValidatesPricingConfig(t *testing.T) {
	v := New()
	start := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	overrides := []pricing.FlatRateOverride{
		{PropertyID: "prop-A", Start: start, End: start.AddDate(0, 0, 3), Rate: 150},
		{PropertyID: "prop-A", Start: start, End: start.AddDate(0, 0, -1), Rate: 150},
	}
	err := v.Slice(overrides)
	if !errors.Is(err, ErrInvalid) || !strings.HasPrefix(err.Error(), "item 1:") {
		t.Fatalf("expected second item to fail, got %v", err)
	}
	if err := v.Struct(pricing.DefaultRuleSet()); err != nil {
		t.Fatalf("default rules should validate, got %v", err)
	}
}
