package token

import (
	"os"
	"strings"
	"time"
)

const (
	// SecretEnvKey names the environment variable holding the HMAC signing secret.
	SecretEnvKey = "VECTOREDU_JWT_SECRET"

	// minSecretBytes is the minimum accepted signing-secret length.
	// HMAC-SHA256 keys shorter than the hash size weaken the MAC.
	minSecretBytes = 32
)

// Config defines all runtime configuration for the token subsystem.
//
// It controls token TTLs, the issuer claim, clock skew tolerance, and the
// HMAC signing secret. It is environment-driven so production deployments
// can tune security parameters without code changes.
type Config struct {
	// Issuer is the value set in the "iss" claim.
	Issuer string

	// AccessTTL defines the lifetime of access tokens.
	AccessTTL time.Duration

	// RefreshTTL defines the lifetime of refresh tokens.
	RefreshTTL time.Duration

	// ClockSkew defines the allowed time skew during token validation.
	// Zero means strict expiry: a token is rejected the moment its
	// expiry passes.
	ClockSkew time.Duration

	// Secret is the HMAC-SHA256 signing key.
	Secret []byte
}

// DefaultConfig returns a secure default configuration suitable for development.
//
// The signing secret is intentionally absent; production environments must
// provide it via VECTOREDU_JWT_SECRET.
func DefaultConfig() Config {
	return Config{
		Issuer:     "vectoredu",
		AccessTTL:  15 * time.Minute,
		RefreshTTL: 7 * 24 * time.Hour,
		ClockSkew:  0,
	}
}

// LoadConfigFromEnv loads token configuration from environment variables.
//
// Required:
//   - VECTOREDU_JWT_SECRET (>= 32 bytes)
//
// Optional (durations must be valid Go duration strings):
//   - VECTOREDU_JWT_ISSUER
//   - VECTOREDU_JWT_ACCESS_TTL
//   - VECTOREDU_JWT_REFRESH_TTL
//   - VECTOREDU_JWT_CLOCK_SKEW (default 0: expiry is enforced strictly)
//
// Returns ErrConfig if configuration is invalid.
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	secret := strings.TrimSpace(os.Getenv(SecretEnvKey))
	if len(secret) < minSecretBytes {
		return Config{}, ErrConfig
	}
	cfg.Secret = []byte(secret)

	if v := os.Getenv("VECTOREDU_JWT_ISSUER"); v != "" {
		cfg.Issuer = v
	}

	if v := os.Getenv("VECTOREDU_JWT_ACCESS_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.AccessTTL = d
	}

	if v := os.Getenv("VECTOREDU_JWT_REFRESH_TTL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return Config{}, ErrConfig
		}
		cfg.RefreshTTL = d
	}

	if v := os.Getenv("VECTOREDU_JWT_CLOCK_SKEW"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d < 0 {
			return Config{}, ErrConfig
		}
		cfg.ClockSkew = d
	}

	return cfg, nil
}
