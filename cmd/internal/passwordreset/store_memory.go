package passwordreset

import (
	"context"
	"strings"
	"sync"
)

// InMemoryStore is a dev-only fallback when DB is not configured.
type InMemoryStore struct {
	mu     sync.Mutex
	byHash map[string]Token
}

// NewInMemoryStore constructs an in-memory reset-token Store implementation.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{byHash: make(map[string]Token)}
}

// Close closes the store (noop for in-memory).
func (s *InMemoryStore) Close() error { return nil }

// Create inserts a new reset-token record.
func (s *InMemoryStore) Create(ctx context.Context, in CreateRecord) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	if strings.TrimSpace(in.ID) == "" || strings.TrimSpace(in.AccountID) == "" || strings.TrimSpace(in.TokenHash) == "" {
		return Token{}, ErrInvalidInput
	}
	if in.ExpiresAt.IsZero() || !in.ExpiresAt.After(in.CreatedAt) {
		return Token{}, ErrInvalidInput
	}

	tok := Token{
		ID:        in.ID,
		AccountID: in.AccountID,
		TokenHash: in.TokenHash,
		CreatedAt: in.CreatedAt,
		ExpiresAt: in.ExpiresAt,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byHash[in.TokenHash]; ok {
		return Token{}, ErrInvalidInput
	}
	s.byHash[in.TokenHash] = tok
	return tok, nil
}

// GetByTokenHash fetches a reset token by token hash.
func (s *InMemoryStore) GetByTokenHash(ctx context.Context, tokenHash string) (Token, error) {
	if err := ctx.Err(); err != nil {
		return Token{}, err
	}
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return Token{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tok, ok := s.byHash[tokenHash]
	if !ok {
		return Token{}, ErrNotFound
	}
	return tok, nil
}

// DeleteByAccount removes all reset tokens for one account.
func (s *InMemoryStore) DeleteByAccount(ctx context.Context, accountID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for hash, tok := range s.byHash {
		if tok.AccountID == accountID {
			delete(s.byHash, hash)
		}
	}
	return nil
}

// DeleteByTokenHash removes a single consumed reset token.
func (s *InMemoryStore) DeleteByTokenHash(ctx context.Context, tokenHash string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.byHash, tokenHash)
	return nil
}
