package invoice

import (
	"errors"
	"testing"
	"time"

	"directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/money"
)

func TestNewComputesTotals(t *testing.T) {
	inv, err := New(CreateParams{
		ID:        "inv-1",
		GuestName: "Ada",
		Items: []LineItem{
			{Description: "Lodging", Quantity: 4, UnitPrice: money.Must(25000, "USD")},
			{Description: "Late checkout", UnitPrice: money.Must(5000, "USD")},
		},
		Options:   pricing.InvoiceOptions{TaxRate: 10, ProcessingFeeRate: 3, SplitPayment: true, DepositPercentage: 50},
		CreatedAt: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("new invoice: %v", err)
	}
	if inv.Totals.Subtotal.Amount != 105000 {
		t.Fatalf("subtotal: got %d", inv.Totals.Subtotal.Amount)
	}
	if inv.Totals.Total.Amount != 118650 {
		t.Fatalf("total: got %d", inv.Totals.Total.Amount)
	}
	if inv.Totals.Deposit.Amount != 59325 || inv.Totals.Balance.Amount != 59325 {
		t.Fatalf("unexpected split %+v", inv.Totals)
	}
}

func TestNewValidation(t *testing.T) {
	item := LineItem{Description: "Lodging", UnitPrice: money.Must(100, "USD")}
	cases := []struct {
		name   string
		params CreateParams
		want   error
	}{
		{"guest", CreateParams{Items: []LineItem{item}}, ErrGuestRequired},
		{"items", CreateParams{GuestName: "Ada"}, ErrNoItems},
		{"item", CreateParams{GuestName: "Ada", Items: []LineItem{{Description: "x"}}}, ErrInvalidItem},
		{"percent", CreateParams{GuestName: "Ada", Items: []LineItem{item}, Options: pricing.InvoiceOptions{TaxRate: 120}}, ErrInvalidPercent},
	}
	for _, tc := range cases {
		if _, err := New(tc.params); !errors.Is(err, tc.want) {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.want)
		}
	}
}
