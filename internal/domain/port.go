package domain

import (
	"context"
	"encoding/json"
)

// SessionValidator validates a session cookie against the identity provider.
type SessionValidator interface {
	ValidateSession(ctx context.Context, cookie string) (*Identity, error)
}

// SessionStore reads and invalidates the authoritative session held by the
// backend session service.
type SessionStore interface {
	// GetSession reads the session for the given Cookie header value.
	// attempt > 0 marks a bridge retry so the backend can distinguish
	// retries from fresh requests.
	GetSession(ctx context.Context, cookieHeader string, attempt int) (*Session, error)
	// GetBridgeSession exchanges a bridge token for its one-time session payload.
	GetBridgeSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, cookieHeader string) error
}

// SessionCache provides read/write access to verified identities.
type SessionCache interface {
	Get(sessionID string) (*CachedIdentity, bool)
	Set(sessionID string, identity CachedIdentity)
	Delete(sessionID string)
}

// BridgeTokenIssuer mints and verifies bridge tokens.
type BridgeTokenIssuer interface {
	Issue(claims BridgeClaims) (string, error)
	Verify(token string) (*BridgeClaims, error)
}

// BridgeTokenRegistry tracks consumed bridge token IDs to enforce one-time use.
type BridgeTokenRegistry interface {
	// Consume marks the token ID as used. It returns false if the ID was
	// already consumed.
	Consume(tokenID string) bool
}

// DraftStore persists in-progress onboarding form data per tenant and step.
// Concurrent writers of the same key follow last-write-wins.
type DraftStore interface {
	Save(ctx context.Context, tenantID string, step Step, data json.RawMessage) error
	Load(ctx context.Context, tenantID string, step Step) (json.RawMessage, error)
	Delete(ctx context.Context, tenantID string, step Step) error
}
