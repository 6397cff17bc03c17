package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"tenant-hub/internal/domain"
)

// Logout invalidates the backend session and evicts the cached identity.
// Invalidation is server-authoritative; the gateway never touches cookies.
type Logout struct {
	sessions domain.SessionStore
	cache    domain.SessionCache
	logger   *slog.Logger
}

// NewLogout creates a new Logout usecase.
func NewLogout(s domain.SessionStore, c domain.SessionCache, l *slog.Logger) *Logout {
	return &Logout{sessions: s, cache: c, logger: l}
}

// Execute invalidates the session identified by cookieValue.
func (uc *Logout) Execute(ctx context.Context, cookieName, cookieValue string) error {
	if cookieValue == "" {
		return domain.ErrUnauthenticated
	}

	// Evict the cached identity first: even if the backend call fails, this
	// gateway must stop honoring the session.
	uc.cache.Delete(cookieValue)

	cookieHeader := fmt.Sprintf("%s=%s", cookieName, cookieValue)
	if err := uc.sessions.DeleteSession(ctx, cookieHeader); err != nil {
		uc.logger.ErrorContext(ctx, "backend session invalidation failed", "error", err)
		return err
	}
	return nil
}
