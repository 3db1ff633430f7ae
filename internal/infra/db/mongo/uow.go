package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"

	"directstay/internal/app/uow"
	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
	domainpromo "directstay/internal/domain/promo"
)

var ErrUnitOfWorkNotConfigured = errors.New("mongo: unit of work factory missing database")

// Factory opens a session with a multi-document transaction per unit. Requires a replica set.
type Factory struct {
	DB *mongo.Database

	BookingRepo domainbooking.Repository
	PromoRepo   domainpromo.Repository
	InvoiceRepo domaininvoice.Repository
}

func (f Factory) Begin(ctx context.Context, opts uow.TxOptions) (uow.UnitOfWork, error) {
	if f.DB == nil {
		return nil, ErrUnitOfWorkNotConfigured
	}
	session, err := f.DB.Client().StartSession()
	if err != nil {
		return nil, err
	}
	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if opts.ReadOnly {
		txnOpts = options.Transaction().SetReadConcern(readconcern.Majority())
	}
	if err := session.StartTransaction(txnOpts); err != nil {
		session.EndSession(ctx)
		return nil, err
	}
	return &Unit{session: session, bookings: f.BookingRepo, promos: f.PromoRepo, invoices: f.InvoiceRepo}, nil
}

type Unit struct {
	session mongo.Session

	bookings domainbooking.Repository
	promos   domainpromo.Repository
	invoices domaininvoice.Repository
}

func (u *Unit) Bookings() domainbooking.Repository { return u.bookings }

func (u *Unit) Promos() domainpromo.Repository { return u.promos }

func (u *Unit) Invoices() domaininvoice.Repository { return u.invoices }

func (u *Unit) Commit(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.CommitTransaction(ctx)
}

func (u *Unit) Rollback(ctx context.Context) error {
	defer u.session.EndSession(ctx)
	return u.session.AbortTransaction(ctx)
}

// InjectContext binds the session so repositories and the outbox store join the transaction.
func (u *Unit) InjectContext(ctx context.Context) context.Context {
	return mongo.NewSessionContext(ctx, u.session)
}

var _ uow.UoWFactory = Factory{}
