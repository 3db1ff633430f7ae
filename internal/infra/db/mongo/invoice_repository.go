package mongo

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domaininvoice "directstay/internal/domain/invoice"
)

type InvoiceRepository struct {
	col *mongo.Collection
}

func NewInvoiceRepository(db *mongo.Database) *InvoiceRepository {
	return &InvoiceRepository{col: db.Collection("invoices")}
}

func (r *InvoiceRepository) ByID(ctx context.Context, id domaininvoice.ID) (*domaininvoice.Invoice, error) {
	var inv domaininvoice.Invoice
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&inv); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domaininvoice.ErrNotFound
		}
		return nil, err
	}
	return &inv, nil
}

// Save stores the invoice as issued; invoices are immutable so the document is replaced wholesale.
func (r *InvoiceRepository) Save(ctx context.Context, inv *domaininvoice.Invoice) error {
	doc := invoiceDocument{ID: string(inv.ID), Invoice: inv}
	_, err := r.col.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	return err
}

type invoiceDocument struct {
	ID                     string `bson:"_id"`
	*domaininvoice.Invoice `bson:",inline"`
}

var _ domaininvoice.Repository = (*InvoiceRepository)(nil)
