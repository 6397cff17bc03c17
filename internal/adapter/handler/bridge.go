package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"tenant-hub/internal/usecase"
	"tenant-hub/middleware"
	"tenant-hub/utils/logger"

	"github.com/labstack/echo/v4"
)

// signInErrorURL is where a failed bridge lands. The error marker lets the
// sign-in page explain the failure instead of showing a blank login form.
const signInErrorURL = "/auth/signin?error=session_init_failed"

// BridgeHandler drives the post-login session bridge: it turns a one-time
// bridge token plus a possibly-not-yet-visible cookie into a redirect to the
// destination the login flow wanted, with the post-auth markers appended.
type BridgeHandler struct {
	uc     *usecase.ResolveBridge
	logger *slog.Logger
}

// NewBridgeHandler creates a new bridge handler.
func NewBridgeHandler(uc *usecase.ResolveBridge, logger *slog.Logger) *BridgeHandler {
	return &BridgeHandler{uc: uc, logger: logger}
}

// Handle processes GET /auth/bridge?token=...&return_to=...
//
// Success is always a 303 to the cleaned return_to with from=auth&direct=1
// appended; any failure is a 303 to the sign-in page. A browser mid-login
// never sees a JSON error from this endpoint.
func (h *BridgeHandler) Handle(c echo.Context) error {
	ctx := c.Request().Context()
	token := c.QueryParam("token")
	returnTo := sanitizeReturnTo(c.QueryParam("return_to"))
	cookieHeader := c.Request().Header.Get("Cookie")
	start := time.Now()

	result, err := h.uc.Execute(ctx, cookieHeader, token)
	if err != nil {
		h.logger.WarnContext(ctx, "session bridge failed",
			"error", err,
			"had_token", token != "",
			"return_to", returnTo)
		return c.Redirect(http.StatusSeeOther, signInErrorURL)
	}

	h.logger.InfoContext(ctx, "session bridge completed",
		"attempts", result.Attempts,
		"tenant_id", result.Session.TenantID,
		"needs_onboarding", result.Session.NeedsOnboarding)

	if logger.GlobalContext != nil {
		dctx := logger.WithBridgeAttempt(logger.WithUserID(ctx, result.Session.UserID), result.Attempts)
		logger.GlobalContext.LogDuration(dctx, "bridge_resolve", time.Since(start).Milliseconds())
	}

	dest := returnTo
	if result.Session.NeedsOnboarding {
		dest = "/onboarding"
	}
	return c.Redirect(http.StatusSeeOther, appendPostAuthMarkers(dest))
}

// HandleExchange processes GET /auth/bridge-session?token=...
// It is the JSON counterpart of /auth/bridge for frontends that run the
// retry loop themselves: one-time token in, session payload out.
func (h *BridgeHandler) HandleExchange(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "missing token")
	}

	session, err := h.uc.Exchange(c.Request().Context(), token)
	if err != nil {
		return mapDomainError(err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(session))
}

// sanitizeReturnTo confines the redirect target to a local path. The bridge
// carries an attacker-suppliable query parameter, so absolute URLs and
// protocol-relative forms are replaced with the root. Any stale bridge token
// in the target is dropped so it cannot leak into history or referrers.
func sanitizeReturnTo(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") {
		return "/"
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return "/"
	}
	q := u.Query()
	q.Del("token")
	u.RawQuery = q.Encode()
	return u.String()
}

// appendPostAuthMarkers adds from=auth&direct=1 to the destination. The
// markers widen tolerance for resolution failures on the next hop only.
func appendPostAuthMarkers(dest string) string {
	u, err := url.Parse(dest)
	if err != nil {
		u = &url.URL{Path: "/"}
	}
	q := u.Query()
	q.Set(middleware.FromAuthParam, middleware.FromAuthValue)
	q.Set(middleware.DirectParam, middleware.DirectValue)
	u.RawQuery = q.Encode()
	return u.String()
}
