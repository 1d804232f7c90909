package password

import "errors"

// Public, stable errors for callers.
var (
	ErrPasswordTooShort = errors.New("password too short")
	ErrPasswordTooLong  = errors.New("password too long")
	ErrMissingUppercase = errors.New("password needs an uppercase letter")
	ErrMissingDigit     = errors.New("password needs a digit")
	ErrInvalidHash      = errors.New("invalid password hash")
)
