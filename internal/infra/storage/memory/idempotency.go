package memory

import (
	"context"
	"sync"
	"time"

	"campstation/internal/app/middleware"
)

// IdempotencyStore keeps command outcomes in memory for ttl. Records older
// than ttl are ignored on read and swept out on writes.
type IdempotencyStore struct {
	mu        sync.RWMutex
	ttl       time.Duration
	items     map[string]middleware.IdempotencyRecord
	nextSweep time.Time
	now       func() time.Time
}

func NewIdempotencyStore(ttl time.Duration) *IdempotencyStore {
	return &IdempotencyStore{ttl: ttl, items: make(map[string]middleware.IdempotencyRecord), now: time.Now}
}

func (s *IdempotencyStore) Get(_ context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.items[key]
	if ok && s.stale(rec, s.now()) {
		return middleware.IdempotencyRecord{}, false, nil
	}
	return rec, ok, nil
}

func (s *IdempotencyStore) Save(_ context.Context, rec middleware.IdempotencyRecord) error {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ttl > 0 && !now.Before(s.nextSweep) {
		for key, item := range s.items {
			if s.stale(item, now) {
				delete(s.items, key)
			}
		}
		s.nextSweep = now.Add(sweepInterval)
	}
	s.items[rec.Key] = rec
	return nil
}

func (s *IdempotencyStore) stale(rec middleware.IdempotencyRecord, now time.Time) bool {
	return s.ttl > 0 && now.Sub(rec.OccurredAt) > s.ttl
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
