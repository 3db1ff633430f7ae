package booking

import (
	"time"

	"directstay/internal/domain/listings"
	"directstay/internal/domain/shared/daterange"
)

type CheckoutCreated struct {
	BookingID BookingID
	ListingID listings.ListingID
	Range     daterange.DateRange
	Total     int64
	Currency  string
	PromoCode string
	Discounts []string
	At        time.Time
}

func (e CheckoutCreated) EventName() string     { return "booking.checkout_created" }
func (e CheckoutCreated) AggregateID() string   { return string(e.BookingID) }
func (e CheckoutCreated) OccurredAt() time.Time { return e.At }

type BookingConfirmed struct {
	BookingID BookingID
	ListingID listings.ListingID
	Range     daterange.DateRange
	Total     int64
	Currency  string
	PromoCode string
	At        time.Time
}

func (e BookingConfirmed) EventName() string     { return "booking.confirmed" }
func (e BookingConfirmed) AggregateID() string   { return string(e.BookingID) }
func (e BookingConfirmed) OccurredAt() time.Time { return e.At }

type BookingCancelled struct {
	BookingID BookingID
	Reason    string
	At        time.Time
}

func (e BookingCancelled) EventName() string     { return "booking.cancelled" }
func (e BookingCancelled) AggregateID() string   { return string(e.BookingID) }
func (e BookingCancelled) OccurredAt() time.Time { return e.At }
