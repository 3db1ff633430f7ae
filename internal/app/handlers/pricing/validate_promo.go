package pricing

import (
	"context"
	"strings"

	"directstay/internal/app/dto"
	"directstay/internal/app/queries"
	domainpricing "directstay/internal/domain/pricing"
	domainpromo "directstay/internal/domain/promo"
)

const ValidatePromoQueryKey = "pricing.validate_promo"

type ValidatePromoQuery struct {
	Code       string `json:"code" validate:"required,max=64"`
	PropertyID string `json:"property_id" validate:"required"`
}

func (ValidatePromoQuery) Key() string { return ValidatePromoQueryKey }

func (q ValidatePromoQuery) Normalize() any {
	q.Code = domainpromo.NormalizeCode(q.Code)
	q.PropertyID = strings.TrimSpace(q.PropertyID)
	return q
}

type ValidatePromoHandler struct {
	Promos domainpricing.PromoValidator
}

func (h *ValidatePromoHandler) Handle(ctx context.Context, q ValidatePromoQuery) (dto.PromoValidation, error) {
	if h.Promos == nil {
		return dto.PromoValidation{}, ErrQuoterNotConfigured
	}
	v, err := h.Promos.Validate(ctx, q.Code, q.PropertyID)
	if err != nil {
		return dto.PromoValidation{}, err
	}
	return dto.MapPromoValidation(v), nil
}

var _ queries.Handler[ValidatePromoQuery, dto.PromoValidation] = (*ValidatePromoHandler)(nil)
