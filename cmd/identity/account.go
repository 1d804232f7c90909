package identity

import (
	"context"
	"time"
)

// Account is VectorEdu's canonical security principal.
//
// Lifecycle invariant: Enabled implies VerificationCode and
// VerificationCodeExpiresAt are both nil (cleared on activation).
type Account struct {
	ID string

	Email           string
	EmailNorm       string
	DisplayName     string
	DisplayNameNorm string

	PasswordHash string
	Enabled      bool

	VerificationCode          *string
	VerificationCodeExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateAccountInput describes a new, disabled account pending verification.
// Email and DisplayName must be unique; the store reports a ConflictError
// naming the violated field otherwise.
type CreateAccountInput struct {
	Email            string
	DisplayName      string
	PasswordHash     string
	VerificationCode string
	CodeExpiresAt    time.Time
	Now              time.Time
}

// Store is the account persistence boundary.
//
// Implementations map missing rows to ErrNotFound and uniqueness violations
// to ConflictError. Mutations are scoped to a single row; the store is the
// only shared mutable resource between concurrent use cases.
type Store interface {
	// CreateAccount inserts a disabled account with a pending verification code.
	CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error)

	// GetAccountByEmail loads an account by (normalized) email.
	GetAccountByEmail(ctx context.Context, email string) (Account, error)

	// GetAccountByID loads an account by id.
	GetAccountByID(ctx context.Context, id string) (Account, error)

	// DeleteAccount removes an account row (used to reclaim an email left by
	// an abandoned, never-verified signup).
	DeleteAccount(ctx context.Context, id string) error

	// EnableAccount flips the account to enabled and clears the verification
	// code and its expiry in the same write.
	EnableAccount(ctx context.Context, id string, now time.Time) error

	// SetVerificationCode replaces the pending code and extends its expiry.
	SetVerificationCode(ctx context.Context, id, code string, expiresAt, now time.Time) error

	// UpdatePassword replaces the stored password hash.
	UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error
}
