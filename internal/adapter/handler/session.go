package handler

import (
	"net/http"
	"strconv"

	"tenant-hub/internal/domain"
	"tenant-hub/internal/usecase"

	"github.com/labstack/echo/v4"
)

// bridgeAttemptHeader carries the bridge loop's attempt counter on inbound
// session reads, so the session service can tell retries from fresh traffic.
const bridgeAttemptHeader = "X-Bridge-Attempt"

// SessionHandler serves the /session endpoint: the frontend-facing,
// non-cacheable view of the authoritative backend session.
type SessionHandler struct {
	sessions   domain.SessionStore
	logout     *usecase.Logout
	cookieName string
}

// NewSessionHandler creates a new session handler.
func NewSessionHandler(sessions domain.SessionStore, logout *usecase.Logout, cookieName string) *SessionHandler {
	return &SessionHandler{sessions: sessions, logout: logout, cookieName: cookieName}
}

// sessionUser represents the user object in the response.
type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email,omitempty"`
}

// sessionResponse represents the JSON response structure.
type sessionResponse struct {
	Authenticated       bool         `json:"authenticated"`
	User                *sessionUser `json:"user,omitempty"`
	TenantID            string       `json:"tenantId,omitempty"`
	Tier                string       `json:"tier,omitempty"`
	NeedsOnboarding     bool         `json:"needsOnboarding,omitempty"`
	OnboardingCompleted bool         `json:"onboardingCompleted,omitempty"`
	CurrentStep         string       `json:"currentStep,omitempty"`
}

// Handle processes GET /session. An unauthenticated caller gets a 200 with
// authenticated=false rather than a 401, so the frontend can branch without
// treating the probe as an error.
func (h *SessionHandler) Handle(c echo.Context) error {
	cookieHeader := c.Request().Header.Get("Cookie")
	attempt, _ := strconv.Atoi(c.Request().Header.Get(bridgeAttemptHeader))

	session, err := h.sessions.GetSession(c.Request().Context(), cookieHeader, attempt)
	if err != nil {
		return mapDomainError(err)
	}

	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// HandleLogout processes DELETE /session.
func (h *SessionHandler) HandleLogout(c echo.Context) error {
	cookie, err := c.Cookie(h.cookieName)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "session cookie not found")
	}

	if err := h.logout.Execute(c.Request().Context(), h.cookieName, cookie.Value); err != nil {
		return mapDomainError(err)
	}
	return c.NoContent(http.StatusNoContent)
}

func toSessionResponse(s *domain.Session) sessionResponse {
	resp := sessionResponse{Authenticated: s.Authenticated}
	if !s.Authenticated {
		return resp
	}
	resp.User = &sessionUser{ID: s.UserID, Email: s.Email}
	resp.TenantID = s.TenantID
	resp.Tier = string(s.Tier)
	resp.NeedsOnboarding = s.NeedsOnboarding
	resp.OnboardingCompleted = s.OnboardingCompleted
	resp.CurrentStep = string(s.CurrentStep)
	return resp
}
