package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config holds the application configuration.
type Config struct {
	Port              string `validate:"required"`
	SessionServiceURL string `validate:"required,url"` // Backend session service base URL
	KratosURL         string `validate:"required,url"` // Kratos Frontend API URL

	SessionCookieName string        `validate:"required"`
	CacheTTL          time.Duration `validate:"gt=0"` // Verified-identity cache TTL

	// Bridge protocol settings.
	BridgeTokenSecret   string        `validate:"required,min=32"`
	BridgeTokenIssuer   string        `validate:"required"`
	BridgeTokenAudience string        `validate:"required"`
	BridgeTokenTTL      time.Duration `validate:"gt=0"`
	BridgeMaxAttempts   int           `validate:"gt=0"`
	BridgeInitialDelay  time.Duration `validate:"gt=0"`
	BridgeMaxDelay      time.Duration `validate:"gt=0"`
	CookieSettleDelay   time.Duration `validate:"gte=0"` // One-shot wait when no bridge token is present

	// Draft persistence settings.
	DraftTTL      time.Duration `validate:"gt=0"`
	DraftMaxBytes int           `validate:"gt=0"`
	DraftRedisURL string        // Optional; empty selects the in-memory store

	// Shared secret protecting /internal endpoints.
	InternalSharedSecret string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                 getEnv("PORT", "8890"),
		SessionServiceURL:    getEnv("SESSION_SERVICE_URL", "http://session-service:8080"),
		KratosURL:            getEnv("KRATOS_URL", "http://kratos:4433"),
		SessionCookieName:    getEnv("SESSION_COOKIE_NAME", "ory_kratos_session"),
		CacheTTL:             5 * time.Minute,
		BridgeTokenSecret:    getEnv("BRIDGE_TOKEN_SECRET", ""),
		BridgeTokenIssuer:    getEnv("BRIDGE_TOKEN_ISSUER", "tenant-hub"),
		BridgeTokenAudience:  getEnv("BRIDGE_TOKEN_AUDIENCE", "tenant-hub-frontend"),
		BridgeTokenTTL:       2 * time.Minute,
		BridgeMaxAttempts:    5,
		BridgeInitialDelay:   100 * time.Millisecond,
		BridgeMaxDelay:       2 * time.Second,
		CookieSettleDelay:    200 * time.Millisecond,
		DraftTTL:             24 * time.Hour,
		DraftMaxBytes:        64 * 1024,
		DraftRedisURL:        getEnv("DRAFT_REDIS_URL", ""),
		InternalSharedSecret: getEnv("INTERNAL_SHARED_SECRET", ""),
	}

	var err error
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", cfg.CacheTTL); err != nil {
		return nil, err
	}
	if cfg.BridgeTokenTTL, err = getDuration("BRIDGE_TOKEN_TTL", cfg.BridgeTokenTTL); err != nil {
		return nil, err
	}
	if cfg.BridgeInitialDelay, err = getDuration("BRIDGE_INITIAL_DELAY", cfg.BridgeInitialDelay); err != nil {
		return nil, err
	}
	if cfg.BridgeMaxDelay, err = getDuration("BRIDGE_MAX_DELAY", cfg.BridgeMaxDelay); err != nil {
		return nil, err
	}
	if cfg.CookieSettleDelay, err = getDuration("COOKIE_SETTLE_DELAY", cfg.CookieSettleDelay); err != nil {
		return nil, err
	}
	if cfg.DraftTTL, err = getDuration("DRAFT_TTL", cfg.DraftTTL); err != nil {
		return nil, err
	}

	if v := os.Getenv("BRIDGE_MAX_ATTEMPTS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BRIDGE_MAX_ATTEMPTS: %w", err)
		}
		cfg.BridgeMaxAttempts = n
	}
	if v := os.Getenv("DRAFT_MAX_BYTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid DRAFT_MAX_BYTES: %w", err)
		}
		cfg.DraftMaxBytes = n
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration against its struct constraints.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if c.BridgeInitialDelay > c.BridgeMaxDelay {
		return fmt.Errorf("BRIDGE_INITIAL_DELAY must not exceed BRIDGE_MAX_DELAY")
	}
	return nil
}

// getDuration parses a duration environment variable, keeping fallback when unset.
func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s format: %w", key, err)
	}
	return d, nil
}

// getEnv retrieves an environment variable or returns a fallback value.
// A KEY_FILE variant pointing at a file takes precedence, for secrets
// mounted in distroless containers.
func getEnv(key, fallback string) string {
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
