package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BRIDGE_TOKEN_SECRET", testSecret)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8890", cfg.Port)
	assert.Equal(t, "http://session-service:8080", cfg.SessionServiceURL)
	assert.Equal(t, "ory_kratos_session", cfg.SessionCookieName)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 5, cfg.BridgeMaxAttempts)
	assert.Equal(t, 100*time.Millisecond, cfg.BridgeInitialDelay)
	assert.Equal(t, 2*time.Second, cfg.BridgeMaxDelay)
	assert.Equal(t, 2*time.Minute, cfg.BridgeTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.DraftTTL)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("BRIDGE_TOKEN_SECRET", testSecret)
	t.Setenv("BRIDGE_MAX_ATTEMPTS", "8")
	t.Setenv("BRIDGE_INITIAL_DELAY", "50ms")
	t.Setenv("BRIDGE_MAX_DELAY", "1s")
	t.Setenv("CACHE_TTL", "90s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.BridgeMaxAttempts)
	assert.Equal(t, 50*time.Millisecond, cfg.BridgeInitialDelay)
	assert.Equal(t, time.Second, cfg.BridgeMaxDelay)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
}

func TestLoad_Invalid(t *testing.T) {
	t.Run("missing bridge secret", func(t *testing.T) {
		t.Setenv("BRIDGE_TOKEN_SECRET", "")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("short bridge secret", func(t *testing.T) {
		t.Setenv("BRIDGE_TOKEN_SECRET", "too-short")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed duration", func(t *testing.T) {
		t.Setenv("BRIDGE_TOKEN_SECRET", testSecret)
		t.Setenv("CACHE_TTL", "five minutes")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("initial delay above cap", func(t *testing.T) {
		t.Setenv("BRIDGE_TOKEN_SECRET", testSecret)
		t.Setenv("BRIDGE_INITIAL_DELAY", "3s")
		t.Setenv("BRIDGE_MAX_DELAY", "2s")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("bad session service url", func(t *testing.T) {
		t.Setenv("BRIDGE_TOKEN_SECRET", testSecret)
		t.Setenv("SESSION_SERVICE_URL", "not a url")
		_, err := Load()
		assert.Error(t, err)
	})
}
