package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"tenant-hub/internal/domain"
	hubotel "tenant-hub/utils/otel"
)

// ResolveSession resolves the authenticated identity and its tenant binding
// for a request. The identity provider authenticates the cookie and its
// verdict is cached; the session service supplies the application session
// (tenant binding, tier, onboarding state) and is read fresh on every call,
// so a session invalidated backend-side is denied on the next request.
type ResolveSession struct {
	validator domain.SessionValidator
	sessions  domain.SessionStore
	cache     domain.SessionCache
	logger    *slog.Logger
}

// NewResolveSession creates a new ResolveSession usecase.
func NewResolveSession(v domain.SessionValidator, s domain.SessionStore, c domain.SessionCache, l *slog.Logger) *ResolveSession {
	return &ResolveSession{validator: v, sessions: s, cache: c, logger: l}
}

// Binding is the resolved identity/tenant pair for a request.
type Binding struct {
	UserID   string
	Email    string
	TenantID string
	Tier     domain.SubscriptionTier
}

// Execute resolves the binding for the session identified by cookieValue.
// cookieHeader is the full Cookie header to forward to the session service.
func (uc *ResolveSession) Execute(ctx context.Context, cookieName, cookieValue string) (*Binding, error) {
	if cookieValue == "" {
		return nil, domain.ErrUnauthenticated
	}

	cookieHeader := fmt.Sprintf("%s=%s", cookieName, cookieValue)

	identity, found := uc.cache.Get(cookieValue)
	if found {
		if m := hubotel.Metrics; m != nil {
			m.SessionCacheHits.Add(ctx, 1)
		}
	} else {
		if m := hubotel.Metrics; m != nil {
			m.SessionCacheMisses.Add(ctx, 1)
		}
		verified, err := uc.validator.ValidateSession(ctx, cookieHeader)
		if err != nil {
			return nil, err
		}
		identity = &domain.CachedIdentity{UserID: verified.UserID, Email: verified.Email}
		uc.cache.Set(cookieValue, *identity)
	}

	// The binding is never cached: logout elsewhere or admin revocation
	// must take effect on the very next request.
	session, err := uc.sessions.GetSession(ctx, cookieHeader, 0)
	if err != nil {
		return nil, err
	}
	if !session.Authenticated {
		// Kratos said yes earlier, the session service says no now: the
		// application session is gone.
		uc.cache.Delete(cookieValue)
		return nil, domain.ErrUnauthenticated
	}

	return &Binding{
		UserID:   identity.UserID,
		Email:    identity.Email,
		TenantID: session.TenantID,
		Tier:     session.Tier,
	}, nil
}

// Invalidate removes the cached identity, e.g. after logout.
func (uc *ResolveSession) Invalidate(cookieValue string) {
	uc.cache.Delete(cookieValue)
}
