package token

import (
	"testing"
	"time"

	"tenant-hub/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() BridgeConfig {
	return BridgeConfig{
		Secret:   "0123456789abcdef0123456789abcdef",
		Issuer:   "tenant-hub",
		Audience: "tenant-hub-frontend",
		TTL:      2 * time.Minute,
	}
}

func TestBridgeIssuer_RoundTrip(t *testing.T) {
	issuer := NewBridgeIssuer(testConfig())

	signed, err := issuer.Issue(domain.BridgeClaims{
		UserID:    "user-123",
		SessionID: "session-abc",
		TenantID:  "ededd6f3-d0d7-552b-8e97-698132712098",
	})
	require.NoError(t, err)
	require.NotEmpty(t, signed)

	claims, err := issuer.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "session-abc", claims.SessionID)
	assert.Equal(t, "ededd6f3-d0d7-552b-8e97-698132712098", claims.TenantID)
	assert.NotEmpty(t, claims.TokenID, "token ID must be assigned for one-time use tracking")
	assert.WithinDuration(t, time.Now(), claims.IssuedAt, 5*time.Second)
}

func TestBridgeIssuer_FreshTokenIDPerIssue(t *testing.T) {
	issuer := NewBridgeIssuer(testConfig())
	in := domain.BridgeClaims{UserID: "user-123", SessionID: "session-abc"}

	t1, err := issuer.Issue(in)
	require.NoError(t, err)
	t2, err := issuer.Issue(in)
	require.NoError(t, err)

	c1, err := issuer.Verify(t1)
	require.NoError(t, err)
	c2, err := issuer.Verify(t2)
	require.NoError(t, err)
	assert.NotEqual(t, c1.TokenID, c2.TokenID)
}

func TestBridgeIssuer_Verify_Rejections(t *testing.T) {
	issuer := NewBridgeIssuer(testConfig())

	t.Run("garbage token", func(t *testing.T) {
		_, err := issuer.Verify("not.a.jwt")
		assert.ErrorIs(t, err, domain.ErrBridgeTokenInvalid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := testConfig()
		other.Secret = "ffffffffffffffffffffffffffffffff"
		signed, err := NewBridgeIssuer(other).Issue(domain.BridgeClaims{UserID: "u"})
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrBridgeTokenInvalid)
	})

	t.Run("wrong audience", func(t *testing.T) {
		other := testConfig()
		other.Audience = "someone-else"
		signed, err := NewBridgeIssuer(other).Issue(domain.BridgeClaims{UserID: "u"})
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrBridgeTokenInvalid)
	})

	t.Run("expired token", func(t *testing.T) {
		other := testConfig()
		other.TTL = -1 * time.Minute
		signed, err := NewBridgeIssuer(other).Issue(domain.BridgeClaims{UserID: "u"})
		require.NoError(t, err)

		_, err = issuer.Verify(signed)
		assert.ErrorIs(t, err, domain.ErrBridgeTokenInvalid)
	})
}

func TestUsedTokenRegistry_Consume(t *testing.T) {
	registry := NewUsedTokenRegistry(time.Minute)

	assert.True(t, registry.Consume("jti-1"), "first use succeeds")
	assert.False(t, registry.Consume("jti-1"), "replay is rejected")
	assert.True(t, registry.Consume("jti-2"), "other tokens unaffected")
	assert.False(t, registry.Consume(""), "empty ID is never consumable")
}
