package dedupe

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a process-local Store for tests and single-replica runs.
type MemoryStore struct {
	mu     sync.Mutex
	now    func() time.Time
	claims map[string]time.Time // id -> expiry
}

// NewMemoryStore creates a MemoryStore using now for expiry.
func NewMemoryStore(now func() time.Time) *MemoryStore {
	return &MemoryStore{now: now, claims: make(map[string]time.Time)}
}

// Claim records id unless an unexpired claim exists.
func (s *MemoryStore) Claim(_ context.Context, id string, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	if exp, ok := s.claims[id]; ok && now.Before(exp) {
		return false, nil
	}
	s.claims[id] = now.Add(ttl)
	return true, nil
}

// Release forgets id.
func (s *MemoryStore) Release(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.claims, id)
	return nil
}
