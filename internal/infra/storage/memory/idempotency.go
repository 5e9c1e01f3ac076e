package memory

import (
	"context"
	"sync"
	"time"

	"stayhub/internal/app/middleware"
)

// IdempotencyStore keeps replayable command results for TTL, mirroring the
// expiry index of the mongo store. A zero TTL keeps records forever.
type IdempotencyStore struct {
	TTL time.Duration
	Now func() time.Time

	mu    sync.Mutex
	items map[string]middleware.IdempotencyRecord
}

func NewIdempotencyStore() *IdempotencyStore {
	return &IdempotencyStore{items: make(map[string]middleware.IdempotencyRecord)}
}

func (s *IdempotencyStore) Get(ctx context.Context, key string) (middleware.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.items[key]
	if !ok {
		return middleware.IdempotencyRecord{}, false, nil
	}
	if s.expired(rec) {
		delete(s.items, key)
		return middleware.IdempotencyRecord{}, false, nil
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec, true, nil
}

// Save keeps the first live record for a key; a concurrent duplicate loses.
func (s *IdempotencyStore) Save(ctx context.Context, rec middleware.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.items[rec.Key]; ok && !s.expired(existing) {
		return nil
	}
	if rec.OccurredAt.IsZero() {
		rec.OccurredAt = s.now()
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	s.items[rec.Key] = rec
	return nil
}

func (s *IdempotencyStore) expired(rec middleware.IdempotencyRecord) bool {
	return s.TTL > 0 && !rec.OccurredAt.IsZero() && s.now().Sub(rec.OccurredAt) >= s.TTL
}

func (s *IdempotencyStore) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

var _ middleware.IdempotencyStore = (*IdempotencyStore)(nil)
