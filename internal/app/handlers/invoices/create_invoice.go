package invoices

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/support"
	"directstay/internal/app/policies"
	domaininvoice "directstay/internal/domain/invoice"
	domainpricing "directstay/internal/domain/pricing"
	"directstay/internal/domain/shared/money"
)

const CreateInvoiceKey = "invoices.create"

type ItemInput struct {
	Description string  `json:"description" validate:"required"`
	Quantity    int     `json:"quantity" validate:"gte=0"`
	UnitPrice   float64 `json:"unit_price" validate:"gt=0"`
}

type CreateInvoiceCommand struct {
	PropertyID        string      `json:"property_id"`
	GuestName         string      `json:"guest_name" validate:"required"`
	GuestEmail        string      `json:"guest_email" validate:"omitempty,email"`
	Currency          string      `json:"currency" validate:"omitempty,len=3"`
	Items             []ItemInput `json:"items" validate:"required,min=1,dive"`
	TaxRate           float64     `json:"tax_rate" validate:"gte=0,lte=100"`
	ProcessingFeeRate float64     `json:"processing_fee_rate" validate:"gte=0,lte=100"`
	SplitPayment      bool        `json:"split_payment"`
	DepositPercentage float64     `json:"deposit_percentage" validate:"gte=0,lte=100"`
}

func (CreateInvoiceCommand) Key() string { return CreateInvoiceKey }

type CreateInvoiceHandler struct {
	// Archive is optional; without it invoices are only stored.
	Archive policies.ArchivePort
	Logger  *slog.Logger
}

func (h *CreateInvoiceHandler) Handle(ctx context.Context, cmd CreateInvoiceCommand) (*dto.Invoice, error) {
	unit, err := support.UnitFromContext(ctx)
	if err != nil {
		return nil, err
	}
	currency := cmd.Currency
	if currency == "" {
		currency = "USD"
	}
	items := make([]domaininvoice.LineItem, 0, len(cmd.Items))
	for _, item := range cmd.Items {
		items = append(items, domaininvoice.LineItem{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   money.FromMajor(item.UnitPrice, currency),
		})
	}
	inv, err := domaininvoice.New(domaininvoice.CreateParams{
		ID:         domaininvoice.ID(uuid.NewString()),
		PropertyID: cmd.PropertyID,
		GuestName:  cmd.GuestName,
		GuestEmail: cmd.GuestEmail,
		Currency:   currency,
		Items:      items,
		Options: domainpricing.InvoiceOptions{
			TaxRate:           cmd.TaxRate,
			ProcessingFeeRate: cmd.ProcessingFeeRate,
			SplitPayment:      cmd.SplitPayment,
			DepositPercentage: cmd.DepositPercentage,
		},
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	if h.Archive != nil {
		h.archive(ctx, inv)
	}
	if err := unit.Invoices().Save(ctx, inv); err != nil {
		return nil, err
	}
	out := dto.MapInvoice(inv)
	return &out, nil
}

// archive uploads a JSON snapshot. Failures are logged; the invoice is still issued.
func (h *CreateInvoiceHandler) archive(ctx context.Context, inv *domaininvoice.Invoice) {
	body, err := json.Marshal(dto.MapInvoice(inv))
	if err == nil {
		var url string
		url, err = h.Archive.Put(ctx, "invoices/"+string(inv.ID)+".json", "application/json", body)
		if err == nil {
			inv.ArchiveURL = url
			return
		}
	}
	if h.Logger != nil {
		h.Logger.Warn("invoice archive failed", "invoice_id", inv.ID, "error", err)
	}
}

var _ commands.Handler[CreateInvoiceCommand, *dto.Invoice] = (*CreateInvoiceHandler)(nil)
