package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"tenant-hub/internal/domain"
	"tenant-hub/internal/usecase"
	"tenant-hub/tenant"
	"tenant-hub/utils/logger"
	hubotel "tenant-hub/utils/otel"

	"github.com/labstack/echo/v4"
)

// Query markers for the immediate post-login redirect. They widen tolerance
// for transient upstream failures during the cookie-propagation race window
// only; an unauthenticated request and a positively detected tenant
// mismatch are enforced regardless.
const (
	FromAuthParam = "from"
	FromAuthValue = "auth"
	DirectParam   = "direct"
	DirectValue   = "1"
)

// TenantIDHeader carries the verified tenant identifier to downstream handlers.
const TenantIDHeader = "X-Tenant-ID"

// AuthRetryHeader marks a response produced while authentication was still
// settling, so the client knows to retry rather than treat it as final.
const AuthRetryHeader = "X-Auth-Retry"

const signInPath = "/auth/signin"
const onboardingPath = "/onboarding"

// SessionResolver resolves the identity/tenant binding for a session cookie.
type SessionResolver interface {
	Execute(ctx context.Context, cookieName, cookieValue string) (*usecase.Binding, error)
}

// TenantIsolationGuard verifies, per request, that the authenticated
// identity's tenant matches the tenant embedded in the request path. The
// decision is made fresh each time; sessions can be invalidated at any
// moment, so nothing about the match is cached across requests.
type TenantIsolationGuard struct {
	resolver   SessionResolver
	cookieName string
	logger     *slog.Logger
}

// NewTenantIsolationGuard creates the guard middleware.
func NewTenantIsolationGuard(resolver SessionResolver, cookieName string, logger *slog.Logger) *TenantIsolationGuard {
	return &TenantIsolationGuard{
		resolver:   resolver,
		cookieName: cookieName,
		logger:     logger,
	}
}

// Enforce returns the Echo middleware for tenant-scoped routes. The route
// group must bind the tenant path segment as :tenant_id.
func (g *TenantIsolationGuard) Enforce() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tenantParam := c.Param("tenant_id")

			// Non-conforming segments are not tenant paths.
			if !tenant.IsValid(tenantParam) {
				return echo.ErrNotFound
			}

			fromAuth := c.QueryParam(FromAuthParam) == FromAuthValue &&
				c.QueryParam(DirectParam) == DirectValue

			var cookieValue string
			if cookie, err := c.Cookie(g.cookieName); err == nil {
				cookieValue = cookie.Value
			}

			binding, err := g.resolver.Execute(c.Request().Context(), g.cookieName, cookieValue)
			if err != nil {
				return g.handleResolutionFailure(c, next, err, fromAuth)
			}

			if binding.TenantID == "" {
				// Authenticated but no tenant yet: onboarding, not an error.
				return c.Redirect(http.StatusFound, onboardingPath)
			}

			if !strings.EqualFold(binding.TenantID, tenantParam) {
				g.logger.ErrorContext(c.Request().Context(), "tenant isolation violation",
					"session_tenant_id", binding.TenantID,
					"requested_tenant_id", tenantParam,
					"user_id", binding.UserID,
					"path", c.Request().URL.Path)
				if m := hubotel.Metrics; m != nil {
					m.TenantMismatchTotal.Add(c.Request().Context(), 1)
				}
				return c.Redirect(http.StatusFound, g.rebuildPath(c, tenantParam, binding.TenantID))
			}

			g.attach(c, &domain.TenantContext{
				TenantID:     binding.TenantID,
				UserID:       binding.UserID,
				Email:        binding.Email,
				Tier:         binding.Tier,
				AuthSettling: fromAuth,
			})
			return next(c)
		}
	}
}

// handleResolutionFailure applies the error taxonomy: unauthenticated always
// goes to sign-in, markers or not; only a transient upstream failure inside
// the post-auth race window passes through once with a retry marker instead
// of locking the user out of their first render. Nothing was verified on
// that path, so no tenant context is attached and handlers that serve
// tenant data refuse on their own.
func (g *TenantIsolationGuard) handleResolutionFailure(c echo.Context, next echo.HandlerFunc, err error, fromAuth bool) error {
	transient := errors.Is(err, domain.ErrSessionServiceUnavailable) ||
		errors.Is(err, domain.ErrIdentityProviderUnavailable)

	if fromAuth && transient {
		g.logger.WarnContext(c.Request().Context(), "tenant check deferred in post-auth window",
			"error", err,
			"tenant_id", c.Param("tenant_id"))
		c.Response().Header().Set(AuthRetryHeader, "1")
		return next(c)
	}

	if !errors.Is(err, domain.ErrUnauthenticated) {
		g.logger.WarnContext(c.Request().Context(), "identity resolution failed, denying",
			"error", err,
			"tenant_id", c.Param("tenant_id"))
	}
	return c.Redirect(http.StatusFound, signInPath)
}

// rebuildPath swaps the mismatched tenant segment for the identity's own
// tenant, preserving the rest of the path. Redirecting to the corrected path
// (rather than an error page) avoids leaking whether the requested
// identifier exists.
func (g *TenantIsolationGuard) rebuildPath(c echo.Context, requested, own string) string {
	path := c.Request().URL.Path
	rest := strings.TrimPrefix(path, "/"+requested)
	return "/" + own + rest
}

func (g *TenantIsolationGuard) attach(c echo.Context, tc *domain.TenantContext) {
	c.Request().Header.Set(TenantIDHeader, tc.TenantID)
	ctx := domain.WithTenantContext(c.Request().Context(), tc)
	ctx = logger.WithTenantID(ctx, tc.TenantID)
	if tc.UserID != "" {
		ctx = logger.WithUserID(ctx, tc.UserID)
	}
	c.SetRequest(c.Request().WithContext(ctx))
}
