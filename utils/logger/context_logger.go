package logger

import (
	"context"
	"log/slog"
)

// contextKey is a private type for context value keys.
type contextKey string

// Business context keys carried through request contexts. The hub.* keys
// mirror the attribute naming used on spans so log/trace correlation works
// in both directions.
const (
	UserIDKey         contextKey = "user_id"
	TenantIDKey       contextKey = "hub.tenant.id"
	SessionIDKey      contextKey = "hub.session.id"
	BridgeAttemptKey  contextKey = "hub.bridge.attempt"
	OnboardingStepKey contextKey = "hub.onboarding.step"
)

// GlobalContext is the process-wide ContextLogger, set by Init.
var GlobalContext *ContextLogger

// ContextLogger enriches log records with business identifiers stashed in
// the request context.
type ContextLogger struct {
	logger *slog.Logger
}

// NewContextLogger creates a ContextLogger around the given logger.
func NewContextLogger(logger *slog.Logger) *ContextLogger {
	return &ContextLogger{logger: logger}
}

// WithUserID stores the user ID in the context for later logging.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// WithTenantID stores the tenant ID in the context for later logging.
func WithTenantID(ctx context.Context, tenantID string) context.Context {
	return context.WithValue(ctx, TenantIDKey, tenantID)
}

// WithSessionID stores the session ID in the context for later logging.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, SessionIDKey, sessionID)
}

// WithBridgeAttempt stores the bridge attempt counter in the context.
func WithBridgeAttempt(ctx context.Context, attempt int) context.Context {
	return context.WithValue(ctx, BridgeAttemptKey, attempt)
}

// WithOnboardingStep stores the onboarding step in the context.
func WithOnboardingStep(ctx context.Context, step string) context.Context {
	return context.WithValue(ctx, OnboardingStepKey, step)
}

// WithContext returns a logger carrying every business key present in ctx.
func (cl *ContextLogger) WithContext(ctx context.Context) *slog.Logger {
	logger := cl.logger

	if v, ok := ctx.Value(UserIDKey).(string); ok && v != "" {
		logger = logger.With(string(UserIDKey), v)
	}
	if v, ok := ctx.Value(TenantIDKey).(string); ok && v != "" {
		logger = logger.With(string(TenantIDKey), v)
	}
	if v, ok := ctx.Value(SessionIDKey).(string); ok && v != "" {
		logger = logger.With(string(SessionIDKey), v)
	}
	if v, ok := ctx.Value(BridgeAttemptKey).(int); ok && v > 0 {
		logger = logger.With(string(BridgeAttemptKey), v)
	}
	if v, ok := ctx.Value(OnboardingStepKey).(string); ok && v != "" {
		logger = logger.With(string(OnboardingStepKey), v)
	}

	return logger
}

// LogDuration logs a completed operation with its duration in milliseconds.
func (cl *ContextLogger) LogDuration(ctx context.Context, operation string, durationMs int64) {
	cl.WithContext(ctx).InfoContext(ctx, "operation completed",
		"operation", operation,
		"duration_ms", durationMs)
}

// LogError logs a failed operation with its error.
func (cl *ContextLogger) LogError(ctx context.Context, operation string, err error) {
	cl.WithContext(ctx).ErrorContext(ctx, "operation failed",
		"operation", operation,
		"error", err)
}
