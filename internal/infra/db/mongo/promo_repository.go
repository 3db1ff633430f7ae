package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainpromo "directstay/internal/domain/promo"
	"directstay/internal/domain/shared/discount"
)

type PromoRepository struct {
	col *mongo.Collection
}

func NewPromoRepository(ctx context.Context, db *mongo.Database) (*PromoRepository, error) {
	col := db.Collection("promo_codes")
	idx := mongo.IndexModel{Keys: bson.D{{Key: "code", Value: 1}}, Options: options.Index().SetUnique(true)}
	if _, err := col.Indexes().CreateOne(ctx, idx); err != nil {
		return nil, err
	}
	return &PromoRepository{col: col}, nil
}

func (r *PromoRepository) ByCode(ctx context.Context, code string) (*domainpromo.PromoCode, error) {
	var doc promoDocument
	if err := r.col.FindOne(ctx, bson.M{"code": domainpromo.NormalizeCode(code)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainpromo.ErrNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

func (r *PromoRepository) List(ctx context.Context) ([]*domainpromo.PromoCode, error) {
	cur, err := r.col.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var docs []promoDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]*domainpromo.PromoCode, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toDomain())
	}
	return out, nil
}

func (r *PromoRepository) Create(ctx context.Context, p *domainpromo.PromoCode) error {
	_, err := r.col.InsertOne(ctx, newPromoDocument(p))
	if mongo.IsDuplicateKeyError(err) {
		return domainpromo.ErrDuplicateCode
	}
	return err
}

func (r *PromoRepository) Delete(ctx context.Context, code string) error {
	res, err := r.col.DeleteOne(ctx, bson.M{"code": domainpromo.NormalizeCode(code)})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domainpromo.ErrNotFound
	}
	return nil
}

// IncrementUsage relies on $inc so concurrent confirmations never lose an update.
func (r *PromoRepository) IncrementUsage(ctx context.Context, code string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"code": domainpromo.NormalizeCode(code)}, bson.M{"$inc": bson.M{"current_uses": 1}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domainpromo.ErrNotFound
	}
	return nil
}

type promoDocument struct {
	ID            string     `bson:"_id"`
	Code          string     `bson:"code"`
	DiscountType  string     `bson:"discount_type"`
	DiscountValue float64    `bson:"discount_value"`
	PropertyID    string     `bson:"property_id"`
	ExpiresAt     *time.Time `bson:"expires_at,omitempty"`
	MaxUses       *int       `bson:"max_uses,omitempty"`
	CurrentUses   int        `bson:"current_uses"`
	CreatedAt     time.Time  `bson:"created_at"`
}

func newPromoDocument(p *domainpromo.PromoCode) promoDocument {
	return promoDocument{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		PropertyID:    p.PropertyID,
		ExpiresAt:     p.ExpiresAt,
		MaxUses:       p.MaxUses,
		CurrentUses:   p.CurrentUses,
		CreatedAt:     p.CreatedAt,
	}
}

func (d promoDocument) toDomain() *domainpromo.PromoCode {
	p := &domainpromo.PromoCode{
		ID:            d.ID,
		Code:          d.Code,
		DiscountType:  discount.Type(d.DiscountType),
		DiscountValue: d.DiscountValue,
		PropertyID:    d.PropertyID,
		MaxUses:       d.MaxUses,
		CurrentUses:   d.CurrentUses,
		CreatedAt:     d.CreatedAt.UTC(),
	}
	if d.ExpiresAt != nil {
		t := d.ExpiresAt.UTC()
		p.ExpiresAt = &t
	}
	return p
}

var _ domainpromo.Repository = (*PromoRepository)(nil)
