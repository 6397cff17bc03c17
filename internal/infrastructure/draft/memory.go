package draft

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"tenant-hub/internal/domain"
)

// MemoryStore is the in-process draft store. Suitable for a single gateway
// instance; concurrent writers of the same key get last-write-wins.
// Implements domain.DraftStore.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]envelope
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates an in-memory draft store with the given default TTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]envelope),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Save wraps data in a current-version envelope and stores it.
func (s *MemoryStore) Save(_ context.Context, tenantID string, step domain.Step, data json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key(tenantID, step)] = envelope{
		Version: CurrentVersion,
		SavedAt: s.now(),
		TTLMs:   s.ttl.Milliseconds(),
		Data:    data,
	}
	return nil
}

// Load returns the stored draft. A missing, expired or version-mismatched
// record yields ErrDraftNotFound; the stale record is purged as a side
// effect.
func (s *MemoryStore) Load(_ context.Context, tenantID string, step domain.Step) (json.RawMessage, error) {
	k := key(tenantID, step)

	s.mu.RLock()
	e, found := s.entries[k]
	s.mu.RUnlock()

	if !found {
		return nil, domain.ErrDraftNotFound
	}
	if !e.usable(s.now()) {
		s.mu.Lock()
		delete(s.entries, k)
		s.mu.Unlock()
		return nil, domain.ErrDraftNotFound
	}
	return e.Data, nil
}

// Delete removes the stored draft, if any.
func (s *MemoryStore) Delete(_ context.Context, tenantID string, step domain.Step) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key(tenantID, step))
	return nil
}
