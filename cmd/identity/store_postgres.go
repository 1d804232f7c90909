package identity

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements account persistence over PostgreSQL.
//
// Design notes:
// - The pgx pool is owned by the caller; this store must NOT close it.
// - Schema/table identifiers are safely quoted to avoid SQL injection via identifiers.
// - Single-row mutations rely on atomic UPDATE ... WHERE guards; no in-process locking.
// - Errors are mapped to identity sentinel kinds where appropriate.
type PostgresStore struct {
	pool   *pgxpool.Pool
	schema string
}

// PostgresOption configures the store.
type PostgresOption func(*PostgresStore) error

var pgIdentRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// WithSchema sets the Postgres schema used by the account store (default "vectoredu").
// The schema name is validated to be a legal PostgreSQL identifier.
func WithSchema(schema string) PostgresOption {
	return func(s *PostgresStore) error {
		schema = strings.TrimSpace(schema)
		if schema == "" {
			return fmt.Errorf("identity: empty schema")
		}
		if !pgIdentRe.MatchString(schema) {
			return fmt.Errorf("identity: invalid schema identifier")
		}
		s.schema = schema
		return nil
	}
}

// NewPostgresStore constructs a PostgresStore with secure defaults.
func NewPostgresStore(pool *pgxpool.Pool, opts ...PostgresOption) (*PostgresStore, error) {
	st := &PostgresStore{
		pool:   pool,
		schema: "vectoredu",
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(st); err != nil {
			return nil, err
		}
	}
	if st.pool == nil {
		return nil, fmt.Errorf("identity: nil pool")
	}
	return st, nil
}

// CreateAccount inserts a new, disabled account with a pending verification code.
func (s *PostgresStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.CreateAccount"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	email := strings.TrimSpace(in.Email)
	displayName := strings.TrimSpace(in.DisplayName)
	if email == "" || displayName == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "email and display name are required"}
	}
	if strings.TrimSpace(in.PasswordHash) == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "password hash is required"}
	}
	if strings.TrimSpace(in.VerificationCode) == "" || in.CodeExpiresAt.IsZero() {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "verification code and expiry are required"}
	}

	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	emailNorm := NormalizeEmail(email)
	displayNameNorm := NormalizeDisplayName(displayName)

	id, err := NewULID(now)
	if err != nil {
		return Account{}, err
	}

	accounts := pgIdent(s.schema, "accounts")

	_, err = s.pool.Exec(ctx,
		`INSERT INTO `+accounts+` (
		     id, email, email_norm, display_name, display_name_norm,
		     password_hash, enabled, verification_code, verification_code_expires_at,
		     created_at, updated_at
		   ) VALUES ($1, $2, $3, $4, $5, $6, FALSE, $7, $8, $9, $9)`,
		id,
		email,
		emailNorm,
		displayName,
		displayNameNorm,
		in.PasswordHash,
		in.VerificationCode,
		in.CodeExpiresAt,
		now,
	)
	if err != nil {
		if field, ok := pgClassifyUniqueViolation(err); ok {
			return Account{}, ConflictError{Op: op, Field: field}
		}
		return Account{}, err
	}

	code := in.VerificationCode
	exp := in.CodeExpiresAt

	return Account{
		ID:                        id,
		Email:                     email,
		EmailNorm:                 emailNorm,
		DisplayName:               displayName,
		DisplayNameNorm:           displayNameNorm,
		PasswordHash:              in.PasswordHash,
		Enabled:                   false,
		VerificationCode:          &code,
		VerificationCodeExpiresAt: &exp,
		CreatedAt:                 now,
		UpdatedAt:                 now,
	}, nil
}

// GetAccountByEmail loads an account by normalized email.
func (s *PostgresStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	const op = "identity.GetAccountByEmail"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "email is required"}
	}

	return s.getAccount(ctx, op, `email_norm = $1`, emailNorm)
}

// GetAccountByID loads an account by id.
func (s *PostgresStore) GetAccountByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetAccountByID"

	if s == nil || s.pool == nil {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "missing id"}
	}

	return s.getAccount(ctx, op, `id = $1`, id)
}

func (s *PostgresStore) getAccount(ctx context.Context, op, where string, arg any) (Account, error) {
	accounts := pgIdent(s.schema, "accounts")

	var out Account
	err := s.pool.QueryRow(ctx,
		`SELECT id, email, email_norm, display_name, display_name_norm,
		        password_hash, enabled, verification_code, verification_code_expires_at,
		        created_at, updated_at
		   FROM `+accounts+`
		  WHERE `+where,
		arg,
	).Scan(
		&out.ID,
		&out.Email,
		&out.EmailNorm,
		&out.DisplayName,
		&out.DisplayNameNorm,
		&out.PasswordHash,
		&out.Enabled,
		&out.VerificationCode,
		&out.VerificationCodeExpiresAt,
		&out.CreatedAt,
		&out.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, NotFoundError{Op: op, Resource: "account"}
		}
		return Account{}, err
	}
	return out, nil
}

// DeleteAccount removes an account row.
// Returns ErrNotFound if the account does not exist.
func (s *PostgresStore) DeleteAccount(ctx context.Context, id string) error {
	const op = "identity.DeleteAccount"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing id"}
	}

	accounts := pgIdent(s.schema, "accounts")

	ct, err := s.pool.Exec(ctx, `DELETE FROM `+accounts+` WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "account"}
	}
	return nil
}

// EnableAccount activates an account and clears the verification code and its
// expiry in a single atomic write.
func (s *PostgresStore) EnableAccount(ctx context.Context, id string, now time.Time) error {
	const op = "identity.EnableAccount"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing id"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	accounts := pgIdent(s.schema, "accounts")

	ct, err := s.pool.Exec(ctx,
		`UPDATE `+accounts+`
		    SET enabled = TRUE,
		        verification_code = NULL,
		        verification_code_expires_at = NULL,
		        updated_at = $1
		  WHERE id = $2`,
		now, id,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "account"}
	}
	return nil
}

// SetVerificationCode replaces the pending code and extends its expiry.
func (s *PostgresStore) SetVerificationCode(ctx context.Context, id, code string, expiresAt, now time.Time) error {
	const op = "identity.SetVerificationCode"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(code) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing id or code"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	accounts := pgIdent(s.schema, "accounts")

	ct, err := s.pool.Exec(ctx,
		`UPDATE `+accounts+`
		    SET verification_code = $1,
		        verification_code_expires_at = $2,
		        updated_at = $3
		  WHERE id = $4`,
		code, expiresAt, now, id,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "account"}
	}
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *PostgresStore) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePassword"

	if s == nil || s.pool == nil {
		return OpError{Op: op, Kind: ErrValidation, Msg: "nil store"}
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" || strings.TrimSpace(passwordHash) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing id or password hash"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	accounts := pgIdent(s.schema, "accounts")

	ct, err := s.pool.Exec(ctx,
		`UPDATE `+accounts+`
		    SET password_hash = $1,
		        updated_at = $2
		  WHERE id = $3`,
		passwordHash, now, id,
	)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return NotFoundError{Op: op, Resource: "account"}
	}
	return nil
}

// ---- helpers ----

// pgIdent safely quotes a schema-qualified identifier: "schema"."name".
func pgIdent(schema, name string) string {
	return pgx.Identifier{schema, name}.Sanitize()
}

func pgClassifyUniqueViolation(err error) (field string, ok bool) {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return "", false
	}
	if pgErr.Code != "23505" { // unique_violation
		return "", false
	}

	// Prefer stable schema constraint names. Fall back to heuristic substring matching.
	c := strings.ToLower(strings.TrimSpace(pgErr.ConstraintName))

	switch c {
	case "uq_accounts_email_norm":
		return "email", true
	case "uq_accounts_display_name_norm":
		return "display_name", true
	case "uq_password_reset_tokens_token_hash":
		return "reset_token", true
	default:
		switch {
		case strings.Contains(c, "email"):
			return "email", true
		case strings.Contains(c, "display") || strings.Contains(c, "name"):
			return "display_name", true
		case strings.Contains(c, "token"):
			return "reset_token", true
		default:
			return "unique", true
		}
	}
}
