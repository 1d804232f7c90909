package token

import "errors"

var (
	// ErrInvalidToken is returned when a token fails signature verification,
	// is expired, or carries malformed claims.
	ErrInvalidToken = errors.New("invalid token")

	// ErrConfig is returned for invalid configuration.
	ErrConfig = errors.New("invalid config")
)
