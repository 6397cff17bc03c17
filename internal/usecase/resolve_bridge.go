package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"tenant-hub/internal/domain"
	hubotel "tenant-hub/utils/otel"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/singleflight"
)

// BridgeConfig holds the bounded retry settings for the session bridge.
type BridgeConfig struct {
	MaxAttempts       int
	InitialDelay      time.Duration
	MaxDelay          time.Duration
	CookieSettleDelay time.Duration
}

// BridgeResult is the outcome of a successful bridge resolution.
type BridgeResult struct {
	Session  *domain.Session
	Attempts int
}

// errNotAuthenticatedYet marks a poll that returned a session the backend
// has not finished propagating; it is the retryable case.
var errNotAuthenticatedYet = errors.New("session not authenticated yet")

// ResolveBridge reconciles a backend-created session with a browser that may
// not yet see the session cookie. The backend session store and the browser
// cookie jar are two writers of truth with different propagation latency;
// the bridge is the bounded retry loop between them, not a fixed sleep.
type ResolveBridge struct {
	sessions domain.SessionStore
	issuer   domain.BridgeTokenIssuer
	registry domain.BridgeTokenRegistry
	cfg      BridgeConfig
	logger   *slog.Logger

	// flights deduplicates concurrent resolutions of the same token, so a
	// duplicate page mount neither double-counts attempts nor races the
	// redirect.
	flights singleflight.Group

	// sleep is swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewResolveBridge creates a new ResolveBridge usecase.
func NewResolveBridge(s domain.SessionStore, i domain.BridgeTokenIssuer, r domain.BridgeTokenRegistry, cfg BridgeConfig, l *slog.Logger) *ResolveBridge {
	return &ResolveBridge{
		sessions: s,
		issuer:   i,
		registry: r,
		cfg:      cfg,
		logger:   l,
		sleep:    sleepCtx,
	}
}

// Exchange verifies a bridge token, consumes its one-time use, and fetches
// the session payload it stands for.
func (uc *ResolveBridge) Exchange(ctx context.Context, token string) (*domain.Session, error) {
	claims, err := uc.issuer.Verify(token)
	if err != nil {
		return nil, err
	}
	if !uc.registry.Consume(claims.TokenID) {
		uc.logger.WarnContext(ctx, "bridge token replay rejected",
			"token_id", claims.TokenID,
			"user_id", claims.UserID)
		return nil, domain.ErrBridgeTokenInvalid
	}

	session, err := uc.sessions.GetBridgeSession(ctx, token)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// Execute runs the bridge protocol for one page load.
//
// Without a token it allows one cookie-settle delay and reads the session
// once: the user either already has a visible session or goes to sign-in.
// With a token it exchanges the token, then polls the authoritative session
// under exponential backoff until the first authenticated response, failing
// with ErrBridgeExhausted after the attempt cap.
func (uc *ResolveBridge) Execute(ctx context.Context, cookieHeader, token string) (*BridgeResult, error) {
	if token == "" {
		if err := uc.sleep(ctx, uc.cfg.CookieSettleDelay); err != nil {
			return nil, err
		}
		session, err := uc.sessions.GetSession(ctx, cookieHeader, 0)
		if err != nil {
			return nil, err
		}
		if !session.Authenticated {
			return nil, domain.ErrUnauthenticated
		}
		return &BridgeResult{Session: session, Attempts: 0}, nil
	}

	result, err, _ := uc.flights.Do(token, func() (interface{}, error) {
		return uc.resolveWithToken(ctx, cookieHeader, token)
	})
	if err != nil {
		return nil, err
	}
	return result.(*BridgeResult), nil
}

func (uc *ResolveBridge) resolveWithToken(ctx context.Context, cookieHeader, token string) (*BridgeResult, error) {
	if _, err := uc.Exchange(ctx, token); err != nil {
		return nil, err
	}

	attempt := 0
	operation := func() (*domain.Session, error) {
		attempt++
		session, err := uc.sessions.GetSession(ctx, cookieHeader, attempt)
		if err != nil {
			if errors.Is(err, domain.ErrSessionServiceUnavailable) {
				return nil, err // transient, retry
			}
			return nil, backoff.Permanent(err)
		}
		if !session.Authenticated {
			return nil, errNotAuthenticatedYet
		}
		return session, nil
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = uc.cfg.InitialDelay
	bo.Multiplier = 2
	bo.MaxInterval = uc.cfg.MaxDelay
	bo.RandomizationFactor = 0

	session, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(uint(uc.cfg.MaxAttempts)),
	)
	if err != nil {
		if errors.Is(err, errNotAuthenticatedYet) || errors.Is(err, domain.ErrSessionServiceUnavailable) {
			uc.logger.WarnContext(ctx, "session bridge exhausted",
				"attempts", attempt,
				"max_attempts", uc.cfg.MaxAttempts)
			if m := hubotel.Metrics; m != nil {
				m.BridgeExhaustedTotal.Add(ctx, 1)
			}
			return nil, fmt.Errorf("%w after %d attempts", domain.ErrBridgeExhausted, attempt)
		}
		return nil, err
	}

	if m := hubotel.Metrics; m != nil {
		m.BridgeResolvedTotal.Add(ctx, 1)
		m.BridgeAttempts.Record(ctx, int64(attempt))
	}
	return &BridgeResult{Session: session, Attempts: attempt}, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
