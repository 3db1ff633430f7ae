package invoice

import (
	"context"
	"errors"
	"strings"
	"time"

	"directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/money"
)

var (
	ErrNotFound       = errors.New("invoice: not found")
	ErrNoItems        = errors.New("invoice: at least one line item required")
	ErrGuestRequired  = errors.New("invoice: guest name required")
	ErrInvalidItem    = errors.New("invoice: line item needs a description and a positive amount")
	ErrInvalidPercent = errors.New("invoice: percentages must be within 0..100")
)

type ID string

type LineItem struct {
	Description string
	Quantity    int
	UnitPrice   money.Money
}

func (l LineItem) Total() money.Money {
	return l.UnitPrice.Multiply(int64(l.Quantity))
}

// Invoice is a manually issued bill for a stay arranged outside checkout.
type Invoice struct {
	ID         ID
	PropertyID string
	GuestName  string
	GuestEmail string
	Currency   string
	Items      []LineItem
	Options    pricing.InvoiceOptions
	Totals     pricing.InvoiceTotals
	// ArchiveURL points at the stored JSON snapshot when archiving is enabled.
	ArchiveURL string
	CreatedAt  time.Time
}

type Repository interface {
	ByID(ctx context.Context, id ID) (*Invoice, error)
	Save(ctx context.Context, inv *Invoice) error
}

type CreateParams struct {
	ID         ID
	PropertyID string
	GuestName  string
	GuestEmail string
	Currency   string
	Items      []LineItem
	Options    pricing.InvoiceOptions
	CreatedAt  time.Time
}

func New(params CreateParams) (*Invoice, error) {
	if strings.TrimSpace(params.GuestName) == "" {
		return nil, ErrGuestRequired
	}
	if len(params.Items) == 0 {
		return nil, ErrNoItems
	}
	if !percent(params.Options.TaxRate) || !percent(params.Options.ProcessingFeeRate) || !percent(params.Options.DepositPercentage) {
		return nil, ErrInvalidPercent
	}
	currency := strings.ToUpper(strings.TrimSpace(params.Currency))
	if currency == "" {
		currency = "USD"
	}
	subtotal := money.Zero(currency)
	items := make([]LineItem, 0, len(params.Items))
	for _, item := range params.Items {
		if item.Quantity == 0 {
			item.Quantity = 1
		}
		if strings.TrimSpace(item.Description) == "" || item.Quantity < 0 || item.UnitPrice.Amount <= 0 {
			return nil, ErrInvalidItem
		}
		item.UnitPrice.Currency = currency
		subtotal.Amount += item.Total().Amount
		items = append(items, item)
	}
	return &Invoice{
		ID:         params.ID,
		PropertyID: params.PropertyID,
		GuestName:  strings.TrimSpace(params.GuestName),
		GuestEmail: strings.TrimSpace(params.GuestEmail),
		Currency:   currency,
		Items:      items,
		Options:    params.Options,
		Totals:     pricing.FinalizeInvoice(subtotal, params.Options),
		CreatedAt:  params.CreatedAt.UTC(),
	}, nil
}

func percent(v float64) bool {
	return v >= 0 && v <= 100
}
