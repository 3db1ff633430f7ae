package promo

import (
	"context"
	"errors"
	"strings"
	"time"

	"directstay/internal/domain/shared/discount"
)

// Wildcard scopes a promo code to every property.
const Wildcard = "*"

var (
	ErrNotFound      = errors.New("promo: code not found")
	ErrCodeRequired  = errors.New("promo: code is required")
	ErrDuplicateCode = errors.New("promo: code already exists")
	ErrInvalidType   = errors.New("promo: discount type must be percentage or flat")
	ErrInvalidValue  = errors.New("promo: discount value must be positive")
	ErrPercentRange  = errors.New("promo: percentage discount cannot exceed 100")
	ErrInvalidCap    = errors.New("promo: max uses must be positive when set")
)

type PromoCode struct {
	ID            string
	Code          string
	DiscountType  discount.Type
	DiscountValue float64
	PropertyID    string
	ExpiresAt     *time.Time
	MaxUses       *int
	CurrentUses   int
	CreatedAt     time.Time
}

type Repository interface {
	ByCode(ctx context.Context, code string) (*PromoCode, error)
	List(ctx context.Context) ([]*PromoCode, error)
	Create(ctx context.Context, code *PromoCode) error
	Delete(ctx context.Context, code string) error
	// IncrementUsage atomically adds one use; concurrent confirmations must not lose updates.
	IncrementUsage(ctx context.Context, code string) error
}

type CreateParams struct {
	ID            string
	Code          string
	DiscountType  discount.Type
	DiscountValue float64
	PropertyID    string
	ExpiresAt     *time.Time
	MaxUses       *int
	Now           time.Time
}

func New(params CreateParams) (*PromoCode, error) {
	code := NormalizeCode(params.Code)
	if code == "" {
		return nil, ErrCodeRequired
	}
	if !params.DiscountType.Valid() {
		return nil, ErrInvalidType
	}
	if params.DiscountValue <= 0 {
		return nil, ErrInvalidValue
	}
	if params.DiscountType == discount.Percentage && params.DiscountValue > 100 {
		return nil, ErrPercentRange
	}
	if params.MaxUses != nil && *params.MaxUses <= 0 {
		return nil, ErrInvalidCap
	}
	scope := strings.TrimSpace(params.PropertyID)
	if scope == "" {
		scope = Wildcard
	}
	var expires *time.Time
	if params.ExpiresAt != nil {
		y, m, d := params.ExpiresAt.UTC().Date()
		day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		expires = &day
	}
	return &PromoCode{
		ID:            params.ID,
		Code:          code,
		DiscountType:  params.DiscountType,
		DiscountValue: params.DiscountValue,
		PropertyID:    scope,
		ExpiresAt:     expires,
		MaxUses:       params.MaxUses,
		CreatedAt:     params.Now.UTC(),
	}, nil
}

// NormalizeCode trims and upper-cases a guest-entered code.
func NormalizeCode(raw string) string {
	return strings.ToUpper(strings.TrimSpace(raw))
}

// Exhausted reports whether the usage cap has been reached.
func (p *PromoCode) Exhausted() bool {
	return p.MaxUses != nil && p.CurrentUses >= *p.MaxUses
}

// Expired compares at day granularity; the expiry day itself is valid until 23:59:59 UTC.
func (p *PromoCode) Expired(now time.Time) bool {
	if p.ExpiresAt == nil {
		return false
	}
	y, m, d := p.ExpiresAt.UTC().Date()
	endOfDay := time.Date(y, m, d, 23, 59, 59, 0, time.UTC)
	return now.UTC().After(endOfDay)
}

func (p *PromoCode) AppliesTo(propertyID string) bool {
	return p.PropertyID == Wildcard || p.PropertyID == propertyID
}

func (p *PromoCode) Label() string {
	return p.Code + " (" + discount.Describe(p.DiscountType, p.DiscountValue) + ")"
}
