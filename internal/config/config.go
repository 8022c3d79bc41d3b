// Package config loads service configuration from the environment.
package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

// Config holds the posting service configuration.
type Config struct {
	Environment string
	DatabaseURL string
	ListenAddr  string
	RedisAddr   string

	// AuthIssuer and AuthPublicKey configure bearer-token verification.
	// AuthPublicKey is a PEM-encoded RSA public key.
	AuthIssuer    string
	AuthPublicKey string

	// MaxBodyBytes caps request bodies. Zero means the default.
	MaxBodyBytes int64

	// RateLimitPerMin is the per-client request budget per minute.
	// Zero disables rate limiting.
	RateLimitPerMin int

	// ShrinkageAccount, when set, is the expense account code that
	// inventory count shortfalls are posted against. Empty disables
	// shrinkage postings.
	ShrinkageAccount string
}

const defaultMaxBodyBytes = 1 << 20

// Load reads configuration from environment variables and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Environment:      os.Getenv("APP_ENV"),
		DatabaseURL:      os.Getenv("DATABASE_URL"),
		ListenAddr:       os.Getenv("LISTEN_ADDR"),
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		AuthIssuer:       os.Getenv("AUTH_ISSUER"),
		AuthPublicKey:    os.Getenv("AUTH_PUBLIC_KEY"),
		ShrinkageAccount: os.Getenv("SHRINKAGE_ACCOUNT"),
	}

	if cfg.ListenAddr == "" {
		cfg.ListenAddr = ":8080"
	}

	var err error
	if cfg.MaxBodyBytes, err = parseInt64("MAX_BODY_BYTES", defaultMaxBodyBytes); err != nil {
		return nil, err
	}
	limit, err := parseInt64("RATE_LIMIT_PER_MIN", 0)
	if err != nil {
		return nil, err
	}
	cfg.RateLimitPerMin = int(limit)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that the configuration is complete. Every missing
// variable is reported in one error.
func (c *Config) Validate() error {
	var missing []string

	if c.Environment == "" {
		missing = append(missing, "APP_ENV")
	}
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	// Auth and rate limiting may be off in development but not beyond it.
	if c.Environment == "production" || c.Environment == "staging" {
		if c.AuthIssuer == "" {
			missing = append(missing, "AUTH_ISSUER")
		}
		if c.AuthPublicKey == "" {
			missing = append(missing, "AUTH_PUBLIC_KEY")
		}
		if c.RateLimitPerMin > 0 && c.RedisAddr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	}

	if len(missing) > 0 {
		return errors.New("missing required environment variables: " + strings.Join(missing, ", "))
	}
	return nil
}

// AuthEnabled reports whether bearer-token verification is configured.
func (c *Config) AuthEnabled() bool {
	return c.AuthPublicKey != ""
}

func parseInt64(key string, fallback int64) (int64, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, errors.New(key + " must be an integer")
	}
	return v, nil
}
