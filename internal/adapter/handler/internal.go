package handler

import (
	"log/slog"
	"net/http"
	"time"

	"tenant-hub/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// InternalHandler serves the backend-only endpoints behind the shared-secret
// middleware.
type InternalHandler struct {
	issuer   domain.BridgeTokenIssuer
	tokenTTL time.Duration
	validate *validator.Validate
	logger   *slog.Logger
}

// NewInternalHandler creates a new internal handler.
func NewInternalHandler(issuer domain.BridgeTokenIssuer, tokenTTL time.Duration, logger *slog.Logger) *InternalHandler {
	return &InternalHandler{
		issuer:   issuer,
		tokenTTL: tokenTTL,
		validate: validator.New(),
		logger:   logger,
	}
}

// bridgeTokenRequest is posted by the backend right after it creates a
// session, while the response to the browser is still in flight.
type bridgeTokenRequest struct {
	UserID    string `json:"user_id" validate:"required"`
	SessionID string `json:"session_id" validate:"required"`
	TenantID  string `json:"tenant_id"`
}

// bridgeTokenResponse carries the minted token back to the backend.
type bridgeTokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

// HandleBridgeToken processes POST /internal/bridge-token.
func (h *InternalHandler) HandleBridgeToken(c echo.Context) error {
	ctx := c.Request().Context()

	var req bridgeTokenRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "user_id and session_id are required")
	}

	token, err := h.issuer.Issue(domain.BridgeClaims{
		UserID:    req.UserID,
		SessionID: req.SessionID,
		TenantID:  req.TenantID,
	})
	if err != nil {
		h.logger.ErrorContext(ctx, "bridge token minting failed",
			"error", err,
			"user_id", req.UserID)
		return mapDomainError(err)
	}

	h.logger.InfoContext(ctx, "bridge token minted",
		"user_id", req.UserID,
		"tenant_id", req.TenantID,
		"remote_addr", c.RealIP())

	return c.JSON(http.StatusOK, bridgeTokenResponse{
		Token:     token,
		ExpiresIn: int64(h.tokenTTL.Seconds()),
	})
}
