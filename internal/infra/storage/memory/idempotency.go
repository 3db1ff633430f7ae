package memory

import (
	"context"
	"sync"
	"time"

	"directstay/internal/app/middleware"
)

// IdempotencyStore keeps replay records in memory. Records older than the retention window
// read as missing and are removed by Prune, mirroring the TTL index of the Mongo store.
type IdempotencyStore struct {
	Retention time.Duration

	mu    sync.RWMutex
	items map[string]storedRecord
	now   func() time.Time
}

type storedRecord struct {
	rec     middleware.IdempotencyRecord
	savedAt time.Time
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{
		Retention: middleware.IdempotencyRetention,
		items:     make(map[string]storedRecord),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.items[key]
	if !ok || s.expired(item, s.Retention) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	return item.rec, true, nil
}

func (s *IdempotencyStore) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[rec.Key] = storedRecord{rec: rec, savedAt: s.now()}
	return nil
}

// Prune drops records saved more than maxAge ago and reports how many went.
func (s *IdempotencyStore) Prune(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for key, item := range s.items {
		if s.expired(item, maxAge) {
			delete(s.items, key)
			removed++
		}
	}
	return removed
}

func (s *IdempotencyStore) expired(item storedRecord, maxAge time.Duration) bool {
	return maxAge > 0 && s.now().Sub(item.savedAt) > maxAge
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
