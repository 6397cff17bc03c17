package handler

import (
	"context"
	"encoding/json"
	"sync"

	"tenant-hub/internal/domain"
)

// stubSessionStore returns a fixed session or error for every call.
type stubSessionStore struct {
	mu sync.Mutex

	session *domain.Session
	err     error

	bridgeSession *domain.Session
	bridgeErr     error

	deleteErr error

	getCalls    int
	attempts    []int
	deleteCalls int
}

func (s *stubSessionStore) GetSession(_ context.Context, _ string, attempt int) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getCalls++
	s.attempts = append(s.attempts, attempt)
	if s.err != nil {
		return nil, s.err
	}
	return s.session, nil
}

func (s *stubSessionStore) GetBridgeSession(context.Context, string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.bridgeErr != nil {
		return nil, s.bridgeErr
	}
	return s.bridgeSession, nil
}

func (s *stubSessionStore) DeleteSession(context.Context, string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	return s.deleteErr
}

// stubCache implements domain.SessionCache over a plain map.
type stubCache struct {
	entries map[string]domain.CachedIdentity
}

func newStubCache() *stubCache {
	return &stubCache{entries: make(map[string]domain.CachedIdentity)}
}

func (s *stubCache) Get(sessionID string) (*domain.CachedIdentity, bool) {
	entry, found := s.entries[sessionID]
	if !found {
		return nil, false
	}
	return &entry, true
}

func (s *stubCache) Set(sessionID string, identity domain.CachedIdentity) {
	s.entries[sessionID] = identity
}

func (s *stubCache) Delete(sessionID string) {
	delete(s.entries, sessionID)
}

// stubIssuer implements domain.BridgeTokenIssuer with canned results.
type stubIssuer struct {
	token    string
	issueErr error

	claims    *domain.BridgeClaims
	verifyErr error
}

func (s *stubIssuer) Issue(domain.BridgeClaims) (string, error) {
	if s.issueErr != nil {
		return "", s.issueErr
	}
	return s.token, nil
}

func (s *stubIssuer) Verify(string) (*domain.BridgeClaims, error) {
	return s.claims, s.verifyErr
}

// stubRegistry implements domain.BridgeTokenRegistry, single-use semantics.
type stubRegistry struct {
	consumed map[string]bool
}

func newStubRegistry() *stubRegistry {
	return &stubRegistry{consumed: make(map[string]bool)}
}

func (s *stubRegistry) Consume(tokenID string) bool {
	if s.consumed[tokenID] {
		return false
	}
	s.consumed[tokenID] = true
	return true
}

// stubDraftStore implements domain.DraftStore over a plain map.
type stubDraftStore struct {
	saved map[string]json.RawMessage
}

func newStubDraftStore() *stubDraftStore {
	return &stubDraftStore{saved: make(map[string]json.RawMessage)}
}

func (s *stubDraftStore) Save(_ context.Context, tenantID string, step domain.Step, data json.RawMessage) error {
	s.saved[tenantID+"/"+string(step)] = data
	return nil
}

func (s *stubDraftStore) Load(_ context.Context, tenantID string, step domain.Step) (json.RawMessage, error) {
	data, ok := s.saved[tenantID+"/"+string(step)]
	if !ok {
		return nil, domain.ErrDraftNotFound
	}
	return data, nil
}

func (s *stubDraftStore) Delete(_ context.Context, tenantID string, step domain.Step) error {
	delete(s.saved, tenantID+"/"+string(step))
	return nil
}
