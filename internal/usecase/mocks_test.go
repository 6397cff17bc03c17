package usecase

import (
	"context"
	"encoding/json"
	"sync"

	"tenant-hub/internal/domain"
)

// fakeSessionStore scripts session service responses per attempt.
type fakeSessionStore struct {
	mu sync.Mutex

	// sessions[i] is returned for the i-th GetSession call (0-based);
	// the last entry repeats once the script runs out.
	sessions []*domain.Session
	// errs[i] overrides sessions[i] when non-nil.
	errs []error

	bridgeSession *domain.Session
	bridgeErr     error

	deleteErr error

	getCalls      int
	attempts      []int
	bridgeCalls   int
	deleteCalls   int
	cookieHeaders []string
}

func (f *fakeSessionStore) GetSession(_ context.Context, cookieHeader string, attempt int) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	i := f.getCalls
	f.getCalls++
	f.attempts = append(f.attempts, attempt)
	f.cookieHeaders = append(f.cookieHeaders, cookieHeader)

	if i >= len(f.sessions) {
		i = len(f.sessions) - 1
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.sessions[i], nil
}

func (f *fakeSessionStore) GetBridgeSession(context.Context, string) (*domain.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.bridgeCalls++
	if f.bridgeErr != nil {
		return nil, f.bridgeErr
	}
	return f.bridgeSession, nil
}

func (f *fakeSessionStore) DeleteSession(context.Context, string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++
	return f.deleteErr
}

// fakeValidator implements domain.SessionValidator.
type fakeValidator struct {
	identity *domain.Identity
	err      error
	called   bool
	cookie   string
}

func (f *fakeValidator) ValidateSession(_ context.Context, cookie string) (*domain.Identity, error) {
	f.called = true
	f.cookie = cookie
	return f.identity, f.err
}

// fakeCache implements domain.SessionCache.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]domain.CachedIdentity
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]domain.CachedIdentity)}
}

func (f *fakeCache) Get(sessionID string) (*domain.CachedIdentity, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, found := f.entries[sessionID]
	if !found {
		return nil, false
	}
	return &entry, true
}

func (f *fakeCache) Set(sessionID string, identity domain.CachedIdentity) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[sessionID] = identity
}

func (f *fakeCache) Delete(sessionID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.entries, sessionID)
}

// fakeIssuer implements domain.BridgeTokenIssuer with canned claims.
type fakeIssuer struct {
	claims *domain.BridgeClaims
	err    error
}

func (f *fakeIssuer) Issue(domain.BridgeClaims) (string, error) {
	return "signed-token", nil
}

func (f *fakeIssuer) Verify(string) (*domain.BridgeClaims, error) {
	return f.claims, f.err
}

// fakeRegistry implements domain.BridgeTokenRegistry.
type fakeRegistry struct {
	mu       sync.Mutex
	consumed map[string]bool
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{consumed: make(map[string]bool)}
}

func (f *fakeRegistry) Consume(tokenID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.consumed[tokenID] {
		return false
	}
	f.consumed[tokenID] = true
	return true
}

// fakeDraftStore implements domain.DraftStore.
type fakeDraftStore struct {
	saved   map[string]json.RawMessage
	loadErr error
}

func newFakeDraftStore() *fakeDraftStore {
	return &fakeDraftStore{saved: make(map[string]json.RawMessage)}
}

func (f *fakeDraftStore) Save(_ context.Context, tenantID string, step domain.Step, data json.RawMessage) error {
	f.saved[tenantID+"/"+string(step)] = data
	return nil
}

func (f *fakeDraftStore) Load(_ context.Context, tenantID string, step domain.Step) (json.RawMessage, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	data, ok := f.saved[tenantID+"/"+string(step)]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return data, nil
}

func (f *fakeDraftStore) Delete(_ context.Context, tenantID string, step domain.Step) error {
	delete(f.saved, tenantID+"/"+string(step))
	return nil
}
