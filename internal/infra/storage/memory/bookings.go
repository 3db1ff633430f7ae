package memory

import (
	"context"
	"fmt"
	"sync"

	domainbooking "directstay/internal/domain/booking"
	domaininvoice "directstay/internal/domain/invoice"
)

var ErrVersionConflict = fmt.Errorf("memory: version conflict: %w", domainbooking.ErrConcurrentUpdate)

type BookingRepository struct {
	mu    sync.RWMutex
	items map[domainbooking.BookingID]*domainbooking.Booking
}

func NewBookingRepository() *BookingRepository {
	return &BookingRepository{items: make(map[domainbooking.BookingID]*domainbooking.Booking)}
}

func (r *BookingRepository) ByID(_ context.Context, id domainbooking.BookingID) (*domainbooking.Booking, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.items[id]
	if !ok {
		return nil, domainbooking.ErrBookingNotFound
	}
	clone := *b
	clone.Price = b.Price.Copy()
	clone.ClearEvents()
	return &clone, nil
}

// Save stores the booking, rejecting writes based on a stale version.
func (r *BookingRepository) Save(_ context.Context, b *domainbooking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.items[b.ID]; ok && existing.Version != b.Version {
		return ErrVersionConflict
	}
	b.Version++
	clone := *b
	clone.Price = b.Price.Copy()
	clone.ClearEvents()
	r.items[b.ID] = &clone
	return nil
}

type InvoiceRepository struct {
	mu    sync.RWMutex
	items map[domaininvoice.ID]*domaininvoice.Invoice
}

func NewInvoiceRepository() *InvoiceRepository {
	return &InvoiceRepository{items: make(map[domaininvoice.ID]*domaininvoice.Invoice)}
}

func (r *InvoiceRepository) ByID(_ context.Context, id domaininvoice.ID) (*domaininvoice.Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.items[id]
	if !ok {
		return nil, domaininvoice.ErrNotFound
	}
	clone := *inv
	return &clone, nil
}

func (r *InvoiceRepository) Save(_ context.Context, inv *domaininvoice.Invoice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *inv
	clone.Items = append([]domaininvoice.LineItem(nil), inv.Items...)
	r.items[inv.ID] = &clone
	return nil
}

var (
	_ domainbooking.Repository = (*BookingRepository)(nil)
	_ domaininvoice.Repository = (*InvoiceRepository)(nil)
)
