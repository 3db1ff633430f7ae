package dto

import (
	"time"

	"directstay/internal/domain/promo"
)

type PromoCode struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	PropertyID    string    `json:"property_id"`
	ExpiresAt     *string   `json:"expires_at,omitempty"`
	MaxUses       *int      `json:"max_uses,omitempty"`
	CurrentUses   int       `json:"current_uses"`
	CreatedAt     time.Time `json:"created_at"`
}

type PromoCodeCollection struct {
	Items []PromoCode `json:"items"`
}

func MapPromoCode(p *promo.PromoCode) PromoCode {
	out := PromoCode{
		ID:            p.ID,
		Code:          p.Code,
		DiscountType:  string(p.DiscountType),
		DiscountValue: p.DiscountValue,
		PropertyID:    p.PropertyID,
		MaxUses:       p.MaxUses,
		CurrentUses:   p.CurrentUses,
		CreatedAt:     p.CreatedAt,
	}
	if p.ExpiresAt != nil {
		s := FormatDate(*p.ExpiresAt)
		out.ExpiresAt = &s
	}
	return out
}
