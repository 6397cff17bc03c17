package domain

import (
	"context"
	"errors"
)

// TenantContext is the per-request tenant binding attached by the isolation
// guard after a successful match. It is rebuilt on every request; the match
// decision is never cached across requests.
type TenantContext struct {
	TenantID string
	UserID   string
	Email    string
	Tier     SubscriptionTier
	// AuthSettling marks the immediate post-login redirect, where cookie
	// propagation may still be in flight and downstream handlers should
	// tolerate a partially resolved identity.
	AuthSettling bool
}

type contextKey string

const tenantContextKey contextKey = "tenant_context"

var errNoTenantContext = errors.New("tenant context not found")

// WithTenantContext attaches the tenant binding to the request context.
func WithTenantContext(ctx context.Context, tc *TenantContext) context.Context {
	return context.WithValue(ctx, tenantContextKey, tc)
}

// TenantFromContext retrieves the tenant binding set by the isolation guard.
func TenantFromContext(ctx context.Context) (*TenantContext, error) {
	tc, ok := ctx.Value(tenantContextKey).(*TenantContext)
	if !ok || tc == nil {
		return nil, errNoTenantContext
	}
	return tc, nil
}
