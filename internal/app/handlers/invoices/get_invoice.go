package invoices

import (
	"context"

	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/support"
	"directstay/internal/app/queries"
	"directstay/internal/app/uow"
	domaininvoice "directstay/internal/domain/invoice"
)

const GetInvoiceKey = "invoices.get"

type GetInvoiceQuery struct {
	ID string `json:"id" validate:"required"`
}

func (GetInvoiceQuery) Key() string { return GetInvoiceKey }

type GetInvoiceHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *GetInvoiceHandler) Handle(ctx context.Context, q GetInvoiceQuery) (dto.Invoice, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.Invoice{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	inv, err := unit.Invoices().ByID(execCtx, domaininvoice.ID(q.ID))
	if err != nil {
		return dto.Invoice{}, err
	}
	return dto.MapInvoice(inv), nil
}

var _ queries.Handler[GetInvoiceQuery, dto.Invoice] = (*GetInvoiceHandler)(nil)
