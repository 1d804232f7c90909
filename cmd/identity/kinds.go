package identity

import "errors"

// Sentinel error kinds (stable for errors.Is and for mapping to API status codes).
//
// Every account use case resolves to exactly one of these kinds on failure;
// anything else is an internal error and must not leak details to clients.
var (
	ErrValidation         = errors.New("validation_failure")
	ErrNotFound           = errors.New("not_found")
	ErrDuplicateAccount   = errors.New("duplicate_account")
	ErrNotVerified        = errors.New("not_verified")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrInvalidToken       = errors.New("invalid_token")
	ErrCodeExpired        = errors.New("code_expired")
	ErrCodeMismatch       = errors.New("code_mismatch")
	ErrAlreadyVerified    = errors.New("already_verified")
	ErrResetTokenInvalid  = errors.New("invalid_or_expired_reset_token")
)
