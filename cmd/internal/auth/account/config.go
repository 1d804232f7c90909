package account

import (
	"errors"
	"os"
	"time"
)

// ErrConfig is returned for invalid configuration.
var ErrConfig = errors.New("invalid config")

// Config defines runtime configuration for the account lifecycle.
type Config struct {
	// VerifyCodeTTL is the lifetime of verification codes, both on signup
	// and on resend.
	VerifyCodeTTL time.Duration
}

// DefaultConfig returns defaults suitable for development.
func DefaultConfig() Config {
	return Config{
		VerifyCodeTTL: 15 * time.Minute,
	}
}

// LoadConfigFromEnv loads account configuration from environment variables.
//
// Optional:
//   - VECTOREDU_VERIFY_CODE_TTL (Go duration string)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := os.Getenv("VECTOREDU_VERIFY_CODE_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.VerifyCodeTTL = d
	}

	return cfg, nil
}
