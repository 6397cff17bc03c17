package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"tenant-hub/internal/domain"
)

// bridgeAttemptHeader tags bridge retries so the backend and observability
// layer can distinguish them from fresh session reads.
const bridgeAttemptHeader = "X-Bridge-Attempt"

// SessionServiceGateway is the HTTP proxy to the backend session service,
// the single system of record for sessions. Implements domain.SessionStore.
type SessionServiceGateway struct {
	baseURL    string
	httpClient *http.Client
}

// NewSessionServiceGateway creates a new session service gateway.
func NewSessionServiceGateway(baseURL string, timeout time.Duration) *SessionServiceGateway {
	return &SessionServiceGateway{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 20,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

// GetSession reads the authoritative session. The session endpoint must be
// read with no-cache semantics: a stale answer here is exactly the race the
// bridge exists to resolve.
func (g *SessionServiceGateway) GetSession(ctx context.Context, cookieHeader string, attempt int) (*domain.Session, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.baseURL+"/session", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	g.setCommonHeaders(req, cookieHeader)
	if attempt > 0 {
		req.Header.Set(bridgeAttemptHeader, strconv.Itoa(attempt))
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Decoded below.
	case http.StatusUnauthorized:
		return &domain.Session{Authenticated: false}, nil
	default:
		return nil, fmt.Errorf("%w: session service returned status %d", domain.ErrSessionServiceUnavailable, resp.StatusCode)
	}

	var session domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	return &session, nil
}

// GetBridgeSession exchanges a bridge token for its one-time session payload.
// The backend rejects reused or expired tokens.
func (g *SessionServiceGateway) GetBridgeSession(ctx context.Context, token string) (*domain.Session, error) {
	u := g.baseURL + "/bridge-session?token=" + url.QueryEscape(token)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	g.setCommonHeaders(req, "")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Decoded below.
	case http.StatusUnauthorized, http.StatusNotFound, http.StatusGone:
		return nil, domain.ErrBridgeTokenInvalid
	default:
		return nil, fmt.Errorf("%w: bridge endpoint returned status %d", domain.ErrSessionServiceUnavailable, resp.StatusCode)
	}

	var session domain.Session
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	return &session, nil
}

// DeleteSession invalidates the session (logout). Invalidations are
// server-authoritative; the gateway never clears cookies itself.
func (g *SessionServiceGateway) DeleteSession(ctx context.Context, cookieHeader string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, g.baseURL+"/session", nil)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	g.setCommonHeaders(req, cookieHeader)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrSessionServiceUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("%w: session service returned status %d", domain.ErrSessionServiceUnavailable, resp.StatusCode)
	}
	return nil
}

func (g *SessionServiceGateway) setCommonHeaders(req *http.Request, cookieHeader string) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-store")
	req.Header.Set("Pragma", "no-cache")
	if cookieHeader != "" {
		req.Header.Set("Cookie", cookieHeader)
	}
}
