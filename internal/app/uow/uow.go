package uow

import (
	"context"

	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
	domainpromo "directstay/internal/domain/promo"
)

// UnitOfWork groups the repositories written by a single command.
type UnitOfWork interface {
	Bookings() domainbooking.Repository
	Promos() domainpromo.Repository
	Invoices() domaininvoice.Repository

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type UoWFactory interface {
	Begin(ctx context.Context, opts TxOptions) (UnitOfWork, error)
}

type TxOptions struct {
	ReadOnly bool
}
