package identity

import (
	"context"
	"strings"
	"sync"
	"time"
)

// InMemoryStore is a dev-only fallback when DB is not configured.
// It mirrors PostgresStore semantics closely enough for local runs and
// unit tests: normalized uniqueness on email and display name, not-found
// mapping, and atomic single-account mutations under one mutex.
type InMemoryStore struct {
	mu      sync.Mutex
	byID    map[string]Account
	byEmail map[string]string // email_norm -> id
	byName  map[string]string // display_name_norm -> id
}

// NewInMemoryStore constructs an in-memory account Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		byID:    make(map[string]Account),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

// Close closes the store (noop for in-memory).
func (s *InMemoryStore) Close() error { return nil }

// CreateAccount inserts a new, disabled account with a pending verification code.
func (s *InMemoryStore) CreateAccount(ctx context.Context, in CreateAccountInput) (Account, error) {
	const op = "identity.CreateAccount"

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

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byEmail[emailNorm]; ok {
		return Account{}, ConflictError{Op: op, Field: "email"}
	}
	if _, ok := s.byName[displayNameNorm]; ok {
		return Account{}, ConflictError{Op: op, Field: "display_name"}
	}

	code := in.VerificationCode
	exp := in.CodeExpiresAt

	acc := Account{
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
	}

	s.byID[id] = acc
	s.byEmail[emailNorm] = id
	s.byName[displayNameNorm] = id

	return acc, nil
}

// GetAccountByEmail loads an account by normalized email.
func (s *InMemoryStore) GetAccountByEmail(ctx context.Context, email string) (Account, error) {
	const op = "identity.GetAccountByEmail"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}

	emailNorm := NormalizeEmail(email)
	if emailNorm == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "email is required"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[emailNorm]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	return cloneAccount(s.byID[id]), nil
}

// GetAccountByID loads an account by id.
func (s *InMemoryStore) GetAccountByID(ctx context.Context, id string) (Account, error) {
	const op = "identity.GetAccountByID"

	if err := ctx.Err(); err != nil {
		return Account{}, err
	}
	if strings.TrimSpace(id) == "" {
		return Account{}, OpError{Op: op, Kind: ErrValidation, Msg: "missing id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return Account{}, NotFoundError{Op: op, Resource: "account"}
	}
	return cloneAccount(acc), nil
}

// DeleteAccount removes an account and frees its unique keys.
func (s *InMemoryStore) DeleteAccount(ctx context.Context, id string) error {
	const op = "identity.DeleteAccount"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(id) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing id"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "account"}
	}
	delete(s.byID, id)
	delete(s.byEmail, acc.EmailNorm)
	delete(s.byName, acc.DisplayNameNorm)
	return nil
}

// EnableAccount activates an account and clears the verification code.
func (s *InMemoryStore) EnableAccount(ctx context.Context, id string, now time.Time) error {
	const op = "identity.EnableAccount"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "account"}
	}
	acc.Enabled = true
	acc.VerificationCode = nil
	acc.VerificationCodeExpiresAt = nil
	acc.UpdatedAt = now
	s.byID[id] = acc
	return nil
}

// SetVerificationCode replaces the pending code and extends its expiry.
func (s *InMemoryStore) SetVerificationCode(ctx context.Context, id, code string, expiresAt, now time.Time) error {
	const op = "identity.SetVerificationCode"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(code) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing code"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "account"}
	}
	c := code
	e := expiresAt
	acc.VerificationCode = &c
	acc.VerificationCodeExpiresAt = &e
	acc.UpdatedAt = now
	s.byID[id] = acc
	return nil
}

// UpdatePassword replaces the stored password hash.
func (s *InMemoryStore) UpdatePassword(ctx context.Context, id, passwordHash string, now time.Time) error {
	const op = "identity.UpdatePassword"

	if err := ctx.Err(); err != nil {
		return err
	}
	if strings.TrimSpace(passwordHash) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "missing password hash"}
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	acc, ok := s.byID[id]
	if !ok {
		return NotFoundError{Op: op, Resource: "account"}
	}
	acc.PasswordHash = passwordHash
	acc.UpdatedAt = now
	s.byID[id] = acc
	return nil
}

// cloneAccount copies pointer fields so callers cannot mutate stored state.
func cloneAccount(a Account) Account {
	if a.VerificationCode != nil {
		c := *a.VerificationCode
		a.VerificationCode = &c
	}
	if a.VerificationCodeExpiresAt != nil {
		e := *a.VerificationCodeExpiresAt
		a.VerificationCodeExpiresAt = &e
	}
	return a
}
