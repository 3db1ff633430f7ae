package admin

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"directstay/internal/app/commands"
	"directstay/internal/app/dto"
	"directstay/internal/app/handlers/support"
	"directstay/internal/app/queries"
	"directstay/internal/app/uow"
	domainpromo "directstay/internal/domain/promo"
	"directstay/internal/domain/shared/discount"
)

const (
	CreatePromoKey = "admin.promo_codes.create"
	DeletePromoKey = "admin.promo_codes.delete"
	ListPromosKey  = "admin.promo_codes.list"
)

type CreatePromoCommand struct {
	Code          string     `json:"code" validate:"required,max=64"`
	DiscountType  string     `json:"discount_type" validate:"oneof=percentage flat"`
	DiscountValue float64    `json:"discount_value" validate:"gt=0"`
	PropertyID    string     `json:"property_id"`
	ExpiresAt     *time.Time `json:"expires_at"`
	MaxUses       *int       `json:"max_uses" validate:"omitempty,gte=1"`
}

func (CreatePromoCommand) Key() string { return CreatePromoKey }

func (c CreatePromoCommand) Normalize() any {
	c.Code = domainpromo.NormalizeCode(c.Code)
	c.DiscountType = strings.ToLower(strings.TrimSpace(c.DiscountType))
	c.PropertyID = strings.TrimSpace(c.PropertyID)
	return c
}

type CreatePromoHandler struct {
	NewID func() string
	Now   func() time.Time
}

func (h *CreatePromoHandler) Handle(ctx context.Context, cmd CreatePromoCommand) (*dto.PromoCode, error) {
	unit, err := support.UnitFromContext(ctx)
	if err != nil {
		return nil, err
	}
	code, err := domainpromo.New(domainpromo.CreateParams{
		ID:            h.newID(),
		Code:          cmd.Code,
		DiscountType:  discount.Type(cmd.DiscountType),
		DiscountValue: cmd.DiscountValue,
		PropertyID:    cmd.PropertyID,
		ExpiresAt:     cmd.ExpiresAt,
		MaxUses:       cmd.MaxUses,
		Now:           h.now(),
	})
	if err != nil {
		return nil, err
	}
	if err := unit.Promos().Create(ctx, code); err != nil {
		return nil, err
	}
	out := dto.MapPromoCode(code)
	return &out, nil
}

func (h *CreatePromoHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

func (h *CreatePromoHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now().UTC()
}

type DeletePromoCommand struct {
	Code string `json:"code" validate:"required"`
}

func (DeletePromoCommand) Key() string { return DeletePromoKey }

func (c DeletePromoCommand) Normalize() any {
	c.Code = domainpromo.NormalizeCode(c.Code)
	return c
}

type DeletePromoResult struct {
	Code string `json:"code"`
}

type DeletePromoHandler struct{}

func (DeletePromoHandler) Handle(ctx context.Context, cmd DeletePromoCommand) (*DeletePromoResult, error) {
	unit, err := support.UnitFromContext(ctx)
	if err != nil {
		return nil, err
	}
	code := domainpromo.NormalizeCode(cmd.Code)
	if err := unit.Promos().Delete(ctx, code); err != nil {
		return nil, err
	}
	return &DeletePromoResult{Code: code}, nil
}

type ListPromosQuery struct{}

func (ListPromosQuery) Key() string { return ListPromosKey }

// ListPromosHandler returns codes newest first, as ordered by the repository.
type ListPromosHandler struct {
	UoWFactory uow.UoWFactory
}

func (h *ListPromosHandler) Handle(ctx context.Context, _ ListPromosQuery) (dto.PromoCodeCollection, error) {
	unit, execCtx, cleanup, err := support.BeginReadOnlyUnit(ctx, h.UoWFactory)
	if err != nil {
		return dto.PromoCodeCollection{}, err
	}
	if cleanup != nil {
		defer cleanup()
	}
	codes, err := unit.Promos().List(execCtx)
	if err != nil {
		return dto.PromoCodeCollection{}, err
	}
	items := make([]dto.PromoCode, 0, len(codes))
	for _, c := range codes {
		items = append(items, dto.MapPromoCode(c))
	}
	return dto.PromoCodeCollection{Items: items}, nil
}

var (
	_ commands.Handler[CreatePromoCommand, *dto.PromoCode]      = (*CreatePromoHandler)(nil)
	_ commands.Handler[DeletePromoCommand, *DeletePromoResult]  = DeletePromoHandler{}
	_ queries.Handler[ListPromosQuery, dto.PromoCodeCollection] = (*ListPromosHandler)(nil)
)
