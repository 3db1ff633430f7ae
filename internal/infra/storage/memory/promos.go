package memory

import (
	"context"
	"sort"
	"sync"

	domainpromo "directstay/internal/domain/promo"
)

type PromoRepository struct {
	mu    sync.RWMutex
	items map[string]*domainpromo.PromoCode
}

func NewPromoRepository() *PromoRepository {
	return &PromoRepository{items: make(map[string]*domainpromo.PromoCode)}
}

func (r *PromoRepository) ByCode(_ context.Context, code string) (*domainpromo.PromoCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.items[domainpromo.NormalizeCode(code)]
	if !ok {
		return nil, domainpromo.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// List returns codes newest first.
func (r *PromoRepository) List(context.Context) ([]*domainpromo.PromoCode, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domainpromo.PromoCode, 0, len(r.items))
	for _, p := range r.items {
		clone := *p
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].Code < out[j].Code
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *PromoRepository) Create(_ context.Context, code *domainpromo.PromoCode) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.items[code.Code]; exists {
		return domainpromo.ErrDuplicateCode
	}
	clone := *code
	r.items[code.Code] = &clone
	return nil
}

func (r *PromoRepository) Delete(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := domainpromo.NormalizeCode(code)
	if _, ok := r.items[key]; !ok {
		return domainpromo.ErrNotFound
	}
	delete(r.items, key)
	return nil
}

func (r *PromoRepository) IncrementUsage(_ context.Context, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.items[domainpromo.NormalizeCode(code)]
	if !ok {
		return domainpromo.ErrNotFound
	}
	p.CurrentUses++
	return nil
}

var _ domainpromo.Repository = (*PromoRepository)(nil)
