package token

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfigFromEnv_RequiresSecret(t *testing.T) {
	t.Setenv(SecretEnvKey, "")

	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig without secret, got: %v", err)
	}

	t.Setenv(SecretEnvKey, "too-short")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for short secret, got: %v", err)
	}
}

func TestLoadConfigFromEnv_DefaultsAndOverrides(t *testing.T) {
	t.Setenv(SecretEnvKey, "0123456789abcdef0123456789abcdef")

	cfg, err := LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Issuer != "vectoredu" {
		t.Fatalf("expected default issuer, got %q", cfg.Issuer)
	}
	if cfg.AccessTTL != 15*time.Minute {
		t.Fatalf("expected default access ttl, got %v", cfg.AccessTTL)
	}
	if cfg.RefreshTTL != 7*24*time.Hour {
		t.Fatalf("expected default refresh ttl, got %v", cfg.RefreshTTL)
	}
	if cfg.ClockSkew != 0 {
		t.Fatalf("expected strict expiry by default, got skew %v", cfg.ClockSkew)
	}

	t.Setenv("VECTOREDU_JWT_ISSUER", "vectoredu-staging")
	t.Setenv("VECTOREDU_JWT_ACCESS_TTL", "5m")
	t.Setenv("VECTOREDU_JWT_REFRESH_TTL", "48h")
	t.Setenv("VECTOREDU_JWT_CLOCK_SKEW", "1m")

	cfg, err = LoadConfigFromEnv()
	if err != nil {
		t.Fatalf("load with overrides: %v", err)
	}
	if cfg.Issuer != "vectoredu-staging" {
		t.Fatalf("expected overridden issuer, got %q", cfg.Issuer)
	}
	if cfg.AccessTTL != 5*time.Minute || cfg.RefreshTTL != 48*time.Hour || cfg.ClockSkew != time.Minute {
		t.Fatalf("expected overridden durations, got %v / %v / %v", cfg.AccessTTL, cfg.RefreshTTL, cfg.ClockSkew)
	}
}

func TestLoadConfigFromEnv_RejectsBadDurations(t *testing.T) {
	t.Setenv(SecretEnvKey, "0123456789abcdef0123456789abcdef")

	t.Setenv("VECTOREDU_JWT_ACCESS_TTL", "not-a-duration")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig, got: %v", err)
	}

	t.Setenv("VECTOREDU_JWT_ACCESS_TTL", "-5m")
	if _, err := LoadConfigFromEnv(); !errors.Is(err, ErrConfig) {
		t.Fatalf("expected ErrConfig for negative ttl, got: %v", err)
	}
}
