package domain

import "errors"

// Authentication errors.
var (
	ErrUnauthenticated = errors.New("no authenticated identity")
	ErrSessionExpired  = errors.New("session expired")
	ErrSessionInactive = errors.New("session is not active")
	ErrMissingIdentity = errors.New("missing identity in session")
)

// Tenant errors.
var (
	ErrTenantUnassigned = errors.New("no tenant bound to identity")
	ErrTenantMismatch   = errors.New("session tenant does not match requested tenant")
)

// Bridge errors.
var (
	ErrBridgeTokenInvalid = errors.New("bridge token invalid or expired")
	ErrBridgeTokenReused  = errors.New("bridge token already consumed")
	ErrBridgeExhausted    = errors.New("session bridge retries exhausted")
	ErrTokenGeneration    = errors.New("token generation failed")
)

// External service errors.
var (
	ErrIdentityProviderUnavailable = errors.New("identity provider unavailable")
	ErrSessionServiceUnavailable   = errors.New("session service unavailable")
)

// Draft errors.
var (
	ErrDraftNotFound = errors.New("draft not found")
	ErrDraftTooLarge = errors.New("draft payload too large")
)

// Rate limiting errors.
var (
	ErrRateLimited = errors.New("rate limit exceeded")
)
