package dto

import (
	"time"

	"directstay/internal/domain/invoice"
)

type InvoiceLineItem struct {
	Description string   `json:"description"`
	Quantity    int      `json:"quantity"`
	UnitPrice   MoneyDTO `json:"unit_price"`
	Total       MoneyDTO `json:"total"`
}

type Invoice struct {
	ID                string            `json:"id"`
	PropertyID        string            `json:"property_id,omitempty"`
	GuestName         string            `json:"guest_name"`
	GuestEmail        string            `json:"guest_email,omitempty"`
	Items             []InvoiceLineItem `json:"items"`
	TaxRate           float64           `json:"tax_rate"`
	ProcessingFeeRate float64           `json:"processing_fee_rate"`
	Subtotal          MoneyDTO          `json:"subtotal"`
	Tax               MoneyDTO          `json:"tax"`
	ProcessingFee     MoneyDTO          `json:"processing_fee"`
	Total             MoneyDTO          `json:"total"`
	SplitPayment      bool              `json:"split_payment"`
	Deposit           *MoneyDTO         `json:"deposit,omitempty"`
	Balance           *MoneyDTO         `json:"balance,omitempty"`
	ArchiveURL        string            `json:"archive_url,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
}

func MapInvoice(inv *invoice.Invoice) Invoice {
	out := Invoice{
		ID:                string(inv.ID),
		PropertyID:        inv.PropertyID,
		GuestName:         inv.GuestName,
		GuestEmail:        inv.GuestEmail,
		TaxRate:           inv.Options.TaxRate,
		ProcessingFeeRate: inv.Options.ProcessingFeeRate,
		Subtotal:          Money(inv.Totals.Subtotal),
		Tax:               Money(inv.Totals.Tax),
		ProcessingFee:     Money(inv.Totals.ProcessingFee),
		Total:             Money(inv.Totals.Total),
		SplitPayment:      inv.Totals.Split,
		ArchiveURL:        inv.ArchiveURL,
		CreatedAt:         inv.CreatedAt,
	}
	for _, item := range inv.Items {
		out.Items = append(out.Items, InvoiceLineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   Money(item.UnitPrice),
			Total:       Money(item.Total()),
		})
	}
	if inv.Totals.Split {
		deposit, balance := Money(inv.Totals.Deposit), Money(inv.Totals.Balance)
		out.Deposit, out.Balance = &deposit, &balance
	}
	return out
}
