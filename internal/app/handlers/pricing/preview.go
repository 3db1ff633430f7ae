package pricing

import (
	"context"
	"strings"
	"time"

	"directstay/internal/app/dto"
	"directstay/internal/app/queries"
	domainpromo "directstay/internal/domain/promo"
)

const PreviewQueryKey = "pricing.preview"

type PreviewQuery struct {
	PropertyID string    `json:"property_id" validate:"required"`
	CheckIn    time.Time `json:"check_in" validate:"required"`
	CheckOut   time.Time `json:"check_out" validate:"required,gtfield=CheckIn"`
	Guests     int       `json:"guests" validate:"gte=1"`
	PromoCode  string    `json:"promo_code" validate:"omitempty,max=64"`
}

func (PreviewQuery) Key() string { return PreviewQueryKey }

func (q PreviewQuery) Normalize() any {
	q.PropertyID = strings.TrimSpace(q.PropertyID)
	q.PromoCode = domainpromo.NormalizeCode(q.PromoCode)
	return q
}

// PreviewHandler returns the guest-facing estimate. It never writes.
type PreviewHandler struct {
	Quoter StayQuoter
}

func (h *PreviewHandler) Handle(ctx context.Context, q PreviewQuery) (dto.PriceBreakdown, error) {
	_, breakdown, err := h.Quoter.Quote(ctx, StayRequest{
		PropertyID: q.PropertyID,
		CheckIn:    q.CheckIn,
		CheckOut:   q.CheckOut,
		Guests:     q.Guests,
		PromoCode:  q.PromoCode,
	})
	if err != nil {
		return dto.PriceBreakdown{}, err
	}
	return dto.MapPriceBreakdown(breakdown), nil
}

var _ queries.Handler[PreviewQuery, dto.PriceBreakdown] = (*PreviewHandler)(nil)
