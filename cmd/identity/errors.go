package identity

import (
	"errors"
	"fmt"
)

// OpError is a typed operation error with a stable Op + Kind contract for callers/tests.
// Kind MUST be one of the sentinel kinds when applicable (ErrValidation, ErrNotFound, ...).
// Msg may include human-readable context; do not include secrets.
type OpError struct {
	Op   string
	Kind error
	Msg  string
}

func (e OpError) Error() string {
	if e.Msg == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, e.Kind, e.Msg)
}

func (e OpError) Unwrap() error { return e.Kind }

// ConflictError reports a uniqueness violation for a specific logical field.
// Field should be a stable logical name: "email", "display_name", "reset_token".
type ConflictError struct {
	Op    string
	Field string
}

func (e ConflictError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrDuplicateAccount)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrDuplicateAccount, e.Field)
}

func (e ConflictError) Unwrap() error { return ErrDuplicateAccount }

// NotFoundError reports a missing row or missing referenced resource.
type NotFoundError struct {
	Op       string
	Resource string
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return fmt.Sprintf("%s: %v", e.Op, ErrNotFound)
	}
	return fmt.Sprintf("%s: %v: %s", e.Op, ErrNotFound, e.Resource)
}

func (e NotFoundError) Unwrap() error { return ErrNotFound }

// IsValidation reports whether err represents ErrValidation.
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

// IsNotFound reports whether err represents ErrNotFound (including NotFoundError).
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsDuplicateAccount reports whether err represents ErrDuplicateAccount.
func IsDuplicateAccount(err error) bool { return errors.Is(err, ErrDuplicateAccount) }

// IsNotVerified reports whether err represents ErrNotVerified.
func IsNotVerified(err error) bool { return errors.Is(err, ErrNotVerified) }

// IsInvalidCredentials reports whether err represents ErrInvalidCredentials.
func IsInvalidCredentials(err error) bool { return errors.Is(err, ErrInvalidCredentials) }

// IsInvalidToken reports whether err represents ErrInvalidToken.
func IsInvalidToken(err error) bool { return errors.Is(err, ErrInvalidToken) }

// IsCodeExpired reports whether err represents ErrCodeExpired.
func IsCodeExpired(err error) bool { return errors.Is(err, ErrCodeExpired) }

// IsCodeMismatch reports whether err represents ErrCodeMismatch.
func IsCodeMismatch(err error) bool { return errors.Is(err, ErrCodeMismatch) }

// IsAlreadyVerified reports whether err represents ErrAlreadyVerified.
func IsAlreadyVerified(err error) bool { return errors.Is(err, ErrAlreadyVerified) }

// IsResetTokenInvalid reports whether err represents ErrResetTokenInvalid.
func IsResetTokenInvalid(err error) bool { return errors.Is(err, ErrResetTokenInvalid) }
