package domain

import "time"

// SubscriptionTier is the billing tier a tenant is on.
type SubscriptionTier string

const (
	TierFree       SubscriptionTier = "free"
	TierBasic      SubscriptionTier = "basic"
	TierPremium    SubscriptionTier = "premium"
	TierEnterprise SubscriptionTier = "enterprise"
)

// IsPremiumClass reports whether the tier goes through the payment step.
func (t SubscriptionTier) IsPremiumClass() bool {
	return t == TierPremium || t == TierEnterprise
}

// Identity represents an authenticated user identity from the identity provider.
type Identity struct {
	UserID    string
	Email     string
	SessionID string
	CreatedAt time.Time
}

// Session is the authoritative session state held by the backend session
// service. The gateway never fabricates or extends one; it only reads it.
type Session struct {
	Authenticated       bool             `json:"authenticated"`
	SessionID           string           `json:"sessionId,omitempty"`
	UserID              string           `json:"userId,omitempty"`
	Email               string           `json:"email,omitempty"`
	TenantID            string           `json:"tenantId,omitempty"`
	Tier                SubscriptionTier `json:"tier,omitempty"`
	NeedsOnboarding     bool             `json:"needsOnboarding,omitempty"`
	OnboardingCompleted bool             `json:"onboardingCompleted,omitempty"`
	CurrentStep         Step             `json:"currentStep,omitempty"`
	PaymentRecorded     bool             `json:"paymentRecorded,omitempty"`
}

// CachedIdentity holds a verified identity-provider verdict. Only the
// identity is cacheable; the tenant binding is re-read from the session
// service on every request because sessions can be invalidated at any time.
type CachedIdentity struct {
	UserID string
	Email  string
}

// BridgeClaims is the payload carried by a bridge token. The token is a
// short-lived handoff credential for the gap between backend session
// creation and browser cookie visibility, never a substitute for the
// session cookie itself.
type BridgeClaims struct {
	TokenID   string
	UserID    string
	SessionID string
	TenantID  string
	IssuedAt  time.Time
}
