package passwordreset

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists reset tokens in PostgreSQL.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// StoreOption configures PostgresStore.
type StoreOption func(*PostgresStore) error

// WithSchema sets the DB schema used by the store (default: "vectoredu").
func WithSchema(schema string) StoreOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return ErrInvalidInput
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool, opts ...StoreOption) (*PostgresStore, error) {
	st := &PostgresStore{pool: pool, schema: "vectoredu"}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, ErrInvalidInput
	}
	return st, nil
}

// Create inserts a new reset-token record.
func (s *PostgresStore) Create(ctx context.Context, in CreateRecord) (Token, error) {
	if s == nil || s.pool == nil {
		return Token{}, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.AccountID) == "" || strings.TrimSpace(in.TokenHash) == "" {
		return Token{}, ErrInvalidInput
	}
	if in.ExpiresAt.IsZero() || !in.ExpiresAt.After(in.CreatedAt) {
		return Token{}, ErrInvalidInput
	}

	tokens := pgIdent(s.schema, "password_reset_tokens")

	_, err := s.pool.Exec(ctx,
		`INSERT INTO `+tokens+` (
		     id, account_id, token_hash, created_at, expires_at
		   ) VALUES ($1, $2, $3, $4, $5)`,
		in.ID,
		in.AccountID,
		in.TokenHash,
		in.CreatedAt,
		in.ExpiresAt,
	)
	if err != nil {
		return Token{}, err
	}

	return Token{
		ID:        in.ID,
		AccountID: in.AccountID,
		TokenHash: in.TokenHash,
		CreatedAt: in.CreatedAt,
		ExpiresAt: in.ExpiresAt,
	}, nil
}

// GetByTokenHash fetches a reset token by token hash.
func (s *PostgresStore) GetByTokenHash(ctx context.Context, tokenHash string) (Token, error) {
	if s == nil || s.pool == nil {
		return Token{}, ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return Token{}, ErrInvalidInput
	}

	tokens := pgIdent(s.schema, "password_reset_tokens")

	var out Token
	err := s.pool.QueryRow(ctx,
		`SELECT id, account_id, token_hash, created_at, expires_at
		   FROM `+tokens+`
		  WHERE token_hash = $1`,
		tokenHash,
	).Scan(
		&out.ID,
		&out.AccountID,
		&out.TokenHash,
		&out.CreatedAt,
		&out.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Token{}, ErrNotFound
		}
		return Token{}, err
	}
	return out, nil
}

// DeleteByAccount removes all reset tokens for one account.
func (s *PostgresStore) DeleteByAccount(ctx context.Context, accountID string) error {
	if s == nil || s.pool == nil {
		return ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return ErrInvalidInput
	}

	tokens := pgIdent(s.schema, "password_reset_tokens")

	_, err := s.pool.Exec(ctx, `DELETE FROM `+tokens+` WHERE account_id = $1`, accountID)
	return err
}

// DeleteByTokenHash removes a single consumed reset token.
func (s *PostgresStore) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if s == nil || s.pool == nil {
		return ErrInvalidInput
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return ErrInvalidInput
	}

	tokens := pgIdent(s.schema, "password_reset_tokens")

	_, err := s.pool.Exec(ctx, `DELETE FROM `+tokens+` WHERE token_hash = $1`, tokenHash)
	return err
}

func pgIdent(schema, table string) string {
	return pgx.Identifier{schema, table}.Sanitize()
}
