package cache

import (
	"sync"
	"time"

	"tenant-hub/internal/domain"
)

// cacheEntry represents a cached identity-provider verdict.
type cacheEntry struct {
	identity  domain.CachedIdentity
	expiresAt time.Time
}

// SessionCache provides thread-safe in-memory caching of verified identities
// with TTL. It only shortcuts identity-provider round trips; the tenant
// binding and the tenant-match decision are made fresh on every request.
// Implements domain.SessionCache.
type SessionCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	ttl     time.Duration
}

// NewSessionCache creates a new session cache with the specified TTL.
func NewSessionCache(ttl time.Duration) *SessionCache {
	c := &SessionCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
	}
	go c.cleanupLoop()
	return c
}

// Get retrieves a cached identity by session ID.
func (c *SessionCache) Get(sessionID string) (*domain.CachedIdentity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[sessionID]
	if !found || time.Now().After(entry.expiresAt) {
		return nil, false
	}
	return &entry.identity, true
}

// Set stores a verified identity in the cache.
func (c *SessionCache) Set(sessionID string, identity domain.CachedIdentity) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[sessionID] = &cacheEntry{
		identity:  identity,
		expiresAt: time.Now().Add(c.ttl),
	}
}

// Delete evicts a session, e.g. on logout.
func (c *SessionCache) Delete(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, sessionID)
}

// cleanup removes expired entries.
func (c *SessionCache) cleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	for id, entry := range c.entries {
		if now.After(entry.expiresAt) {
			delete(c.entries, id)
		}
	}
}

// cleanupLoop runs periodic cleanup of expired entries.
func (c *SessionCache) cleanupLoop() {
	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		c.cleanup()
	}
}
