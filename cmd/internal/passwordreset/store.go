package passwordreset

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("reset token not found")
)

// Token is a stored reset-token row. Only the hash of the token value is
// persisted; TokenHash is the lookup key.
type Token struct {
	ID        string
	AccountID string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// CreateRecord is a normalized reset-token insert payload.
type CreateRecord struct {
	ID        string
	AccountID string
	TokenHash string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Store is the persistence boundary for reset tokens.
type Store interface {
	// Create inserts a token row.
	Create(ctx context.Context, in CreateRecord) (Token, error)

	// GetByTokenHash fetches a token row by hash. Missing rows map to ErrNotFound.
	GetByTokenHash(ctx context.Context, tokenHash string) (Token, error)

	// DeleteByAccount removes all token rows for an account. Deleting zero
	// rows is not an error; the invariant is at-most-one live token.
	DeleteByAccount(ctx context.Context, accountID string) error

	// DeleteByTokenHash removes a single token row after consumption.
	DeleteByTokenHash(ctx context.Context, tokenHash string) error
}
