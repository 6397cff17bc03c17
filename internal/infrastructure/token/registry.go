package token

import (
	"sync"
	"time"
)

// UsedTokenRegistry records consumed bridge token IDs so a token can be
// exchanged exactly once. Entries outlive the token TTL slightly and are
// then swept; a token that expired cannot be replayed anyway.
// Implements domain.BridgeTokenRegistry.
type UsedTokenRegistry struct {
	mu       sync.Mutex
	consumed map[string]time.Time
	ttl      time.Duration
}

// NewUsedTokenRegistry creates a registry whose entries live for ttl.
func NewUsedTokenRegistry(ttl time.Duration) *UsedTokenRegistry {
	r := &UsedTokenRegistry{
		consumed: make(map[string]time.Time),
		ttl:      ttl,
	}
	go r.cleanupLoop()
	return r
}

// Consume marks the token ID as used, returning false on a replay.
func (r *UsedTokenRegistry) Consume(tokenID string) bool {
	if tokenID == "" {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if expiry, seen := r.consumed[tokenID]; seen && time.Now().Before(expiry) {
		return false
	}
	r.consumed[tokenID] = time.Now().Add(r.ttl)
	return true
}

func (r *UsedTokenRegistry) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		r.mu.Lock()
		now := time.Now()
		for id, expiry := range r.consumed {
			if now.After(expiry) {
				delete(r.consumed, id)
			}
		}
		r.mu.Unlock()
	}
}
