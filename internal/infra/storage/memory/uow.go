package memory

import (
	"context"
	"errors"

	"directstay/internal/app/uow"
	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
	domainpromo "directstay/internal/domain/promo"
)

var ErrFactoryMisconfigured = errors.New("memory: unit of work factory misconfigured")

// Factory hands out units over shared in-memory repositories. There is no isolation or rollback;
// repositories copy on read and write so aggregates are never shared.
type Factory struct {
	Bookings *BookingRepository
	Promos   *PromoRepository
	Invoices *InvoiceRepository
}

func (f Factory) Begin(context.Context, uow.TxOptions) (uow.UnitOfWork, error) {
	if f.Bookings == nil || f.Promos == nil || f.Invoices == nil {
		return nil, ErrFactoryMisconfigured
	}
	return &Unit{bookings: f.Bookings, promos: f.Promos, invoices: f.Invoices}, nil
}

type Unit struct {
	bookings domainbooking.Repository
	promos   domainpromo.Repository
	invoices domaininvoice.Repository
}

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Promos() domainpromo.Repository { return u.promos }

func (u *Unit) Invoices() domaininvoice.Repository { return u.invoices }

func (u *Unit) Commit(context.Context) error { return nil }

func (u *Unit) Rollback(context.Context) error { return nil }

var _ uow.UoWFactory = Factory{}
