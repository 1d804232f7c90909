package passwordreset

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"vectoredu/cmd/identity"
	"vectoredu/cmd/internal/notify"
	sectoken "vectoredu/cmd/security/token"

	"github.com/google/uuid"
)

// PasswordHasher validates and hashes replacement passwords.
// security/password.Config satisfies it.
type PasswordHasher interface {
	Validate(password string) error
	Hash(password string) (string, error)
}

// Service drives the request/consume halves of password recovery.
//
// Errors surface as identity kinds so the HTTP layer maps them uniformly:
// a missing or disabled account is ErrNotFound, any bad token condition
// collapses to ErrResetTokenInvalid without distinguishing why.
type Service struct {
	accounts identity.Store
	tokens   Store
	hasher   PasswordHasher
	mailer   notify.Mailer
	log      *slog.Logger

	tokenTTL time.Duration
	linkBase string
}

// Option configures the Service.
type Option func(*Service) error

// WithLogger sets the service logger (default slog.Default).
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) error {
		if log == nil {
			return ErrInvalidInput
		}
		s.log = log
		return nil
	}
}

// WithConfig applies token TTL and link base settings.
func WithConfig(cfg Config) Option {
	return func(s *Service) error {
		if cfg.TokenTTL <= 0 || strings.TrimSpace(cfg.LinkBase) == "" {
			return ErrInvalidInput
		}
		s.tokenTTL = cfg.TokenTTL
		s.linkBase = strings.TrimSpace(cfg.LinkBase)
		return nil
	}
}

// NewService constructs a Service with safe defaults.
func NewService(accounts identity.Store, tokens Store, hasher PasswordHasher, mailer notify.Mailer, opts ...Option) (*Service, error) {
	if accounts == nil || tokens == nil || hasher == nil || mailer == nil {
		return nil, ErrInvalidInput
	}
	def := DefaultConfig()
	s := &Service{
		accounts: accounts,
		tokens:   tokens,
		hasher:   hasher,
		mailer:   mailer,
		log:      slog.Default(),
		tokenTTL: def.TokenTTL,
		linkBase: def.LinkBase,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// RequestReset mints a fresh one-time token for the account and mails the
// reset link. Any previous token for the account is invalidated first.
//
// A disabled account is reported as not found; recovery is only offered to
// verified accounts.
func (s *Service) RequestReset(ctx context.Context, email string, now time.Time) error {
	const op = "passwordreset.RequestReset"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// No address-format check here: a malformed or blank email is simply
	// not an account, and the response must not distinguish the two.
	if identity.NormalizeEmail(email) == "" {
		return identity.NotFoundError{Op: op, Resource: "account"}
	}

	acc, err := s.accounts.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if !acc.Enabled {
		return identity.NotFoundError{Op: op, Resource: "account"}
	}

	plain := uuid.NewString()
	hash := sectoken.HashResetTokenHex(plain)

	// At most one live token per account.
	if err := s.tokens.DeleteByAccount(ctx, acc.ID); err != nil {
		return err
	}

	id, err := identity.NewULID(now)
	if err != nil {
		return err
	}
	if _, err := s.tokens.Create(ctx, CreateRecord{
		ID:        id,
		AccountID: acc.ID,
		TokenHash: hash,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}); err != nil {
		return err
	}

	msg, err := notify.PasswordResetMessage(acc.Email, s.resetLink(plain))
	if err != nil {
		return err
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		// The token is live; the holder can retry the request. Delivery
		// failure is not surfaced to the caller.
		s.log.ErrorContext(ctx, "passwordreset.mail.fail",
			slog.String("account_id", acc.ID),
			slog.String("err", err.Error()),
		)
		return nil
	}

	s.log.InfoContext(ctx, "passwordreset.requested", slog.String("account_id", acc.ID))
	return nil
}

// ResetPassword consumes a token and replaces the account password.
//
// Unknown, expired, and orphaned tokens are indistinguishable to the
// caller: all surface as ErrResetTokenInvalid.
func (s *Service) ResetPassword(ctx context.Context, token, newPassword string, now time.Time) error {
	const op = "passwordreset.ResetPassword"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return identity.OpError{Op: op, Kind: identity.ErrResetTokenInvalid}
	}

	hash := sectoken.HashResetTokenHex(token)
	tok, err := s.tokens.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return identity.OpError{Op: op, Kind: identity.ErrResetTokenInvalid}
		}
		return err
	}

	if !tok.ExpiresAt.After(now) {
		_ = s.tokens.DeleteByTokenHash(ctx, hash)
		return identity.OpError{Op: op, Kind: identity.ErrResetTokenInvalid}
	}

	if err := s.hasher.Validate(newPassword); err != nil {
		return identity.OpError{Op: op, Kind: identity.ErrValidation, Msg: err.Error()}
	}
	passwordHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.accounts.UpdatePassword(ctx, tok.AccountID, passwordHash, now); err != nil {
		if identity.IsNotFound(err) {
			// Account vanished after the token was minted.
			_ = s.tokens.DeleteByTokenHash(ctx, hash)
			return identity.OpError{Op: op, Kind: identity.ErrResetTokenInvalid}
		}
		return err
	}

	if err := s.tokens.DeleteByTokenHash(ctx, hash); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "passwordreset.completed", slog.String("account_id", tok.AccountID))
	return nil
}

func (s *Service) resetLink(plainToken string) string {
	return s.linkBase + "?token=" + url.QueryEscape(plainToken)
}
