package passwordreset

import (
	"os"
	"strings"
	"time"
)

// Config defines runtime configuration for the password recovery flow.
type Config struct {
	// TokenTTL is the lifetime of a reset token. Tokens are deliberately
	// short-lived; the mail link is the only place the plaintext exists.
	TokenTTL time.Duration

	// LinkBase is the reset page URL the mail link points at. The one-time
	// token is appended as a "token" query parameter.
	LinkBase string
}

// DefaultConfig returns defaults suitable for development.
func DefaultConfig() Config {
	return Config{
		TokenTTL: 5 * time.Minute,
		LinkBase: "https://localhost:8080/auth/reset-password",
	}
}

// LoadConfigFromEnv loads password-reset configuration from environment variables.
//
// Optional:
//   - VECTOREDU_RESET_TOKEN_TTL (Go duration string)
//   - VECTOREDU_RESET_LINK_BASE
//
// Returns ErrInvalidInput if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("VECTOREDU_RESET_TOKEN_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrInvalidInput
		}
		cfg.TokenTTL = d
	}

	if v := strings.TrimSpace(os.Getenv("VECTOREDU_RESET_LINK_BASE")); v != "" {
		cfg.LinkBase = v
	}

	return cfg, nil
}
