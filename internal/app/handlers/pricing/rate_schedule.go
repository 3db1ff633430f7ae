package pricing

import (
	"context"
	"time"

	"directstay/internal/app/dto"
	"directstay/internal/app/queries"
	domainlistings "directstay/internal/domain/listings"
	domainpricing "directstay/internal/domain/pricing"
	domainrange "directstay/internal/domain/shared/daterange"
)

const RateScheduleQueryKey = "pricing.rate_schedule"

type RateScheduleQuery struct {
	PropertyID string    `json:"property_id" validate:"required"`
	CheckIn    time.Time `json:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
}

func (RateScheduleQuery) Key() string { return RateScheduleQueryKey }

type Scheduler interface {
	Schedule(ctx context.Context, listing *domainlistings.Listing, r domainrange.DateRange) (domainpricing.StayTotals, error)
}

// RateScheduleHandler serves the undiscounted nightly schedule for admin previews and exports.
type RateScheduleHandler struct {
	Listings  domainlistings.Repository
	Scheduler Scheduler
}

func (h *RateScheduleHandler) Handle(ctx context.Context, q RateScheduleQuery) (dto.RateSchedule, error) {
	if h.Listings == nil || h.Scheduler == nil {
		return dto.RateSchedule{}, ErrQuoterNotConfigured
	}
	dr, err := domainrange.New(q.CheckIn, q.CheckOut)
	if err != nil {
		return dto.RateSchedule{}, err
	}
	listing, err := h.Listings.ByID(ctx, domainlistings.ListingID(q.PropertyID))
	if err != nil {
		return dto.RateSchedule{}, err
	}
	totals, err := h.Scheduler.Schedule(ctx, listing, dr)
	if err != nil {
		return dto.RateSchedule{}, err
	}
	rates := dto.MapDailyRates(totals.DailyRates)
	if rates == nil {
		rates = []dto.DailyRate{}
	}
	return dto.RateSchedule{
		PropertyID:     q.PropertyID,
		Currency:       listing.Currency,
		NumberOfNights: dr.Nights(),
		NightlyRate:    dto.Money(totals.NightlyRate),
		Subtotal:       dto.Money(totals.Subtotal),
		DailyRates:     rates,
		Fallback:       totals.Fallback,
	}, nil
}

var _ queries.Handler[RateScheduleQuery, dto.RateSchedule] = (*RateScheduleHandler)(nil)
