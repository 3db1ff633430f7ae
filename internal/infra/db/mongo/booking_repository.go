package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	domainbooking "directstay/internal/domain/booking"
	"directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	domainrange "directstay/internal/domain/shared/daterange"
)

var ErrConcurrentUpdate = fmt.Errorf("mongo: concurrent update detected: %w", domainbooking.ErrConcurrentUpdate)

type BookingRepository struct {
	col *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) *BookingRepository {
	return &BookingRepository{col: db.Collection("bookings")}
}

func (r *BookingRepository) ByID(ctx context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	var doc bookingDocument
	if err := r.col.FindOne(ctx, bson.M{"_id": string(id)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domainbooking.ErrBookingNotFound
		}
		return nil, err
	}
	return doc.toAggregate(), nil
}

// Save upserts guarded by version; a stale writer matches nothing and collides on _id.
func (r *BookingRepository) Save(ctx context.Context, b *domainbooking.Booking) error {
	doc := newBookingDocument(b)
	filter := bson.M{"_id": doc.ID, "version": b.Version}
	doc.Version = b.Version + 1
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": doc}, options.Update().SetUpsert(true))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrConcurrentUpdate
		}
		return err
	}
	if res.MatchedCount == 0 && res.UpsertedCount == 0 {
		return ErrConcurrentUpdate
	}
	b.Version = doc.Version
	return nil
}

type bookingDocument struct {
	ID             string                       `bson:"_id"`
	ListingID      string                       `bson:"listing_id"`
	GuestEmail     string                       `bson:"guest_email"`
	CheckIn        time.Time                    `bson:"check_in"`
	CheckOut       time.Time                    `bson:"check_out"`
	Guests         int                          `bson:"guests"`
	Price          domainpricing.PriceBreakdown `bson:"price"`
	PromoCode      string                       `bson:"promo_code,omitempty"`
	State          string                       `bson:"state"`
	PaymentSession string                       `bson:"payment_session"`
	PaymentRef     string                       `bson:"payment_ref,omitempty"`
	CreatedAt      time.Time                    `bson:"created_at"`
	UpdatedAt      time.Time                    `bson:"updated_at"`
	Version        int64                        `bson:"version"`
}

func newBookingDocument(b *domainbooking.Booking) bookingDocument {
	return bookingDocument{
		ID:             string(b.ID),
		ListingID:      string(b.ListingID),
		GuestEmail:     b.GuestEmail,
		CheckIn:        b.Range.CheckIn,
		CheckOut:       b.Range.CheckOut,
		Guests:         b.Guests,
		Price:          b.Price,
		PromoCode:      b.PromoCode,
		State:          string(b.State),
		PaymentSession: b.PaymentSession,
		PaymentRef:     b.PaymentRef,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
		Version:        b.Version,
	}
}

func (d bookingDocument) toAggregate() *domainbooking.Booking {
	return &domainbooking.Booking{
		ID:             domainbooking.BookingID(d.ID),
		ListingID:      listings.ListingID(d.ListingID),
		GuestEmail:     d.GuestEmail,
		Range:          domainrange.DateRange{CheckIn: d.CheckIn.UTC(), CheckOut: d.CheckOut.UTC()},
		Guests:         d.Guests,
		Price:          d.Price,
		PromoCode:      d.PromoCode,
		State:          domainbooking.BookingState(d.State),
		PaymentSession: d.PaymentSession,
		PaymentRef:     d.PaymentRef,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
		Version:        d.Version,
	}
}

var _ domainbooking.Repository = (*BookingRepository)(nil)
