package token

import (
	"fmt"
	"time"

	"tenant-hub/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// BridgeConfig holds bridge token generation configuration.
type BridgeConfig struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// bridgeClaims is the JWT claim set for a bridge token. The JTI is the
// one-time-use handle tracked by the registry.
type bridgeClaims struct {
	Sid string `json:"sid"`
	Tid string `json:"tid,omitempty"`
	jwt.RegisteredClaims
}

// BridgeIssuer mints and verifies short-lived bridge tokens.
// Implements domain.BridgeTokenIssuer.
type BridgeIssuer struct {
	cfg BridgeConfig
}

// NewBridgeIssuer creates a new bridge token issuer.
func NewBridgeIssuer(cfg BridgeConfig) *BridgeIssuer {
	return &BridgeIssuer{cfg: cfg}
}

// Issue generates a signed bridge token for the given claims. A fresh token
// ID is assigned; the caller's TokenID field is ignored.
func (b *BridgeIssuer) Issue(claims domain.BridgeClaims) (string, error) {
	now := time.Now()
	jwtClaims := bridgeClaims{
		Sid: claims.SessionID,
		Tid: claims.TenantID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    b.cfg.Issuer,
			Audience:  jwt.ClaimStrings{b.cfg.Audience},
			Subject:   claims.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(b.cfg.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims)
	signed, err := token.SignedString([]byte(b.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenGeneration, err)
	}
	return signed, nil
}

// Verify checks signature, expiry, issuer and audience, and returns the
// embedded claims. Expiry here bounds the validity window; one-time use is
// enforced separately by the registry.
func (b *BridgeIssuer) Verify(tokenString string) (*domain.BridgeClaims, error) {
	var claims bridgeClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(b.cfg.Secret), nil
		},
		jwt.WithIssuer(b.cfg.Issuer),
		jwt.WithAudience(b.cfg.Audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return nil, domain.ErrBridgeTokenInvalid
	}

	var issuedAt time.Time
	if claims.IssuedAt != nil {
		issuedAt = claims.IssuedAt.Time
	}

	return &domain.BridgeClaims{
		TokenID:   claims.ID,
		UserID:    claims.Subject,
		SessionID: claims.Sid,
		TenantID:  claims.Tid,
		IssuedAt:  issuedAt,
	}, nil
}
