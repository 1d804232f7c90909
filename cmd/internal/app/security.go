package app

import (
	"errors"

	sectoken "vectoredu/cmd/security/token"
)

// ValidateSecurityConfig enforces the server's security policy at startup.
//
// Fail-fast is intentional: silently falling back to weaker hashing for
// password-reset tokens in production is unacceptable.
func ValidateSecurityConfig(cfg Config) error {
	if !cfg.RequireTokenHMAC {
		return nil
	}

	// Minimum 32 bytes for an HMAC-SHA256 secret.
	// Bytes, not runes: the key is used as raw bytes.
	if _, err := sectoken.HMACKeyFromEnv(32); err != nil {
		switch {
		case errors.Is(err, sectoken.ErrHMACKeyMissing):
			return errors.New("security policy: VECTOREDU_REQUIRE_TOKEN_HMAC=true but VECTOREDU_TOKEN_HMAC_KEY is missing")
		case errors.Is(err, sectoken.ErrHMACKeyTooShort):
			return errors.New("security policy: VECTOREDU_REQUIRE_TOKEN_HMAC=true but VECTOREDU_TOKEN_HMAC_KEY is too short (min 32 bytes)")
		default:
			return err
		}
	}

	if !sectoken.HMACEnabled() {
		return errors.New("security policy: VECTOREDU_REQUIRE_TOKEN_HMAC=true but token hasher is not in HMAC mode")
	}

	return nil
}
