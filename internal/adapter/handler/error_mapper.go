package handler

import (
	"errors"
	"net/http"

	"tenant-hub/internal/domain"

	"github.com/labstack/echo/v4"
)

// mapDomainError converts a domain error into an appropriate echo.HTTPError.
func mapDomainError(err error) *echo.HTTPError {
	switch {
	case errors.Is(err, domain.ErrUnauthenticated),
		errors.Is(err, domain.ErrSessionExpired),
		errors.Is(err, domain.ErrSessionInactive),
		errors.Is(err, domain.ErrMissingIdentity):
		return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")

	case errors.Is(err, domain.ErrBridgeTokenInvalid),
		errors.Is(err, domain.ErrBridgeTokenReused):
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid bridge token")

	case errors.Is(err, domain.ErrBridgeExhausted):
		return echo.NewHTTPError(http.StatusGatewayTimeout, "session initialization timed out")

	case errors.Is(err, domain.ErrTenantUnassigned):
		return echo.NewHTTPError(http.StatusForbidden, "no tenant assigned")

	case errors.Is(err, domain.ErrTenantMismatch):
		return echo.NewHTTPError(http.StatusForbidden, "tenant access denied")

	case errors.Is(err, domain.ErrIdentityProviderUnavailable),
		errors.Is(err, domain.ErrSessionServiceUnavailable):
		return echo.NewHTTPError(http.StatusBadGateway, "upstream service unavailable")

	case errors.Is(err, domain.ErrTokenGeneration):
		return echo.NewHTTPError(http.StatusInternalServerError, "token generation error")

	case errors.Is(err, domain.ErrDraftNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "draft not found")

	case errors.Is(err, domain.ErrDraftTooLarge):
		return echo.NewHTTPError(http.StatusRequestEntityTooLarge, "draft payload too large")

	case errors.Is(err, domain.ErrRateLimited):
		return echo.NewHTTPError(http.StatusTooManyRequests, "rate limit exceeded")

	default:
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}
}
