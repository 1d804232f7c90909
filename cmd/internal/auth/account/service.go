package account

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"vectoredu/cmd/identity"
	"vectoredu/cmd/internal/auth/token"
	"vectoredu/cmd/internal/notify"
)

// PasswordHasher validates, hashes, and verifies passwords.
// security/password.Config satisfies it.
type PasswordHasher interface {
	Validate(password string) error
	Hash(password string) (string, error)
	Verify(encodedHash, password string) (bool, error)
}

// TokenPair is the result of a successful authentication.
type TokenPair struct {
	AccessToken      string
	AccessExpiresAt  time.Time
	RefreshToken     string
	RefreshExpiresAt time.Time
}

// SignUpInput describes a signup request.
type SignUpInput struct {
	Email       string
	DisplayName string
	Password    string
	Now         time.Time
}

// Service implements the account lifecycle use cases.
type Service struct {
	store  identity.Store
	hasher PasswordHasher
	mailer notify.Mailer
	codec  token.Codec
	log    *slog.Logger

	verifyCodeTTL time.Duration
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// Option configures the Service.
type Option func(*Service) error

// WithLogger sets the service logger (default slog.Default).
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) error {
		if log == nil {
			return ErrConfig
		}
		s.log = log
		return nil
	}
}

// WithConfig applies the verification-code TTL.
func WithConfig(cfg Config) Option {
	return func(s *Service) error {
		if cfg.VerifyCodeTTL <= 0 {
			return ErrConfig
		}
		s.verifyCodeTTL = cfg.VerifyCodeTTL
		return nil
	}
}

// NewService constructs a Service with safe defaults. Token TTLs come from
// the codec configuration; the codec itself stays TTL-agnostic.
func NewService(store identity.Store, hasher PasswordHasher, mailer notify.Mailer, codec token.Codec, tokenCfg token.Config, opts ...Option) (*Service, error) {
	if store == nil || hasher == nil || mailer == nil || codec == nil {
		return nil, ErrConfig
	}
	if tokenCfg.AccessTTL <= 0 || tokenCfg.RefreshTTL <= 0 {
		return nil, ErrConfig
	}

	s := &Service{
		store:         store,
		hasher:        hasher,
		mailer:        mailer,
		codec:         codec,
		log:           slog.Default(),
		verifyCodeTTL: DefaultConfig().VerifyCodeTTL,
		accessTTL:     tokenCfg.AccessTTL,
		refreshTTL:    tokenCfg.RefreshTTL,
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

// SignUp registers a disabled account with a pending verification code and
// mails the code to the new address.
//
// An enabled account already holding the email is a DuplicateAccount. A
// disabled one is an abandoned signup: its row is deleted first so the
// email is reclaimed rather than squatted forever.
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (identity.Account, error) {
	const op = "account.SignUp"

	if err := ctx.Err(); err != nil {
		return identity.Account{}, err
	}
	now := in.Now
	if now.IsZero() {
		now = time.Now().UTC()
	}

	// All validation happens before any store access.
	if err := identity.ValidateEmail(in.Email); err != nil {
		return identity.Account{}, err
	}
	if err := identity.ValidateDisplayName(in.DisplayName); err != nil {
		return identity.Account{}, err
	}
	if err := s.hasher.Validate(in.Password); err != nil {
		return identity.Account{}, identity.OpError{Op: op, Kind: identity.ErrValidation, Msg: err.Error()}
	}

	existing, err := s.store.GetAccountByEmail(ctx, in.Email)
	switch {
	case err == nil && existing.Enabled:
		return identity.Account{}, identity.ConflictError{Op: op, Field: "email"}
	case err == nil:
		if err := s.store.DeleteAccount(ctx, existing.ID); err != nil && !identity.IsNotFound(err) {
			return identity.Account{}, err
		}
		s.log.InfoContext(ctx, "account.signup.reclaimed",
			slog.String("account_id", existing.ID),
		)
	case !identity.IsNotFound(err):
		return identity.Account{}, err
	}

	passwordHash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return identity.Account{}, err
	}
	code, err := identity.NewVerificationCode()
	if err != nil {
		return identity.Account{}, err
	}

	acc, err := s.store.CreateAccount(ctx, identity.CreateAccountInput{
		Email:            strings.TrimSpace(in.Email),
		DisplayName:      strings.TrimSpace(in.DisplayName),
		PasswordHash:     passwordHash,
		VerificationCode: code,
		CodeExpiresAt:    now.Add(s.verifyCodeTTL),
		Now:              now,
	})
	if err != nil {
		return identity.Account{}, err
	}

	s.sendVerificationMail(ctx, acc.Email, code)
	s.log.InfoContext(ctx, "account.signup.ok", slog.String("account_id", acc.ID))
	return acc, nil
}

// Authenticate checks credentials and issues an access/refresh token pair
// bound to the account email as subject.
func (s *Service) Authenticate(ctx context.Context, email, password string, now time.Time) (identity.Account, TokenPair, error) {
	const op = "account.Authenticate"

	if err := ctx.Err(); err != nil {
		return identity.Account{}, TokenPair{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	acc, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return identity.Account{}, TokenPair{}, err
	}
	if !acc.Enabled {
		return identity.Account{}, TokenPair{}, identity.OpError{Op: op, Kind: identity.ErrNotVerified}
	}

	ok, err := s.hasher.Verify(acc.PasswordHash, password)
	if err != nil {
		return identity.Account{}, TokenPair{}, err
	}
	if !ok {
		// Never reveal whether email or password was wrong.
		return identity.Account{}, TokenPair{}, identity.OpError{Op: op, Kind: identity.ErrInvalidCredentials}
	}

	pair, err := s.issuePair(acc.Email, now)
	if err != nil {
		return identity.Account{}, TokenPair{}, err
	}

	s.log.InfoContext(ctx, "account.login.ok", slog.String("account_id", acc.ID))
	return acc, pair, nil
}

// RefreshAccessToken mints a fresh access token from a refresh token.
// The refresh token is not rotated.
//
// The subject is decoded unverified first so a deleted account maps to
// NotFound before the token's own validity is judged.
func (s *Service) RefreshAccessToken(ctx context.Context, refreshToken string, now time.Time) (TokenPair, error) {
	const op = "account.RefreshAccessToken"

	if err := ctx.Err(); err != nil {
		return TokenPair{}, err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	subject, err := s.codec.Subject(refreshToken)
	if err != nil {
		return TokenPair{}, identity.OpError{Op: op, Kind: identity.ErrInvalidToken}
	}

	acc, err := s.store.GetAccountByEmail(ctx, subject)
	if err != nil {
		return TokenPair{}, err
	}

	claims, err := s.codec.Verify(refreshToken, now)
	if err != nil || claims.Subject != acc.Email {
		return TokenPair{}, identity.OpError{Op: op, Kind: identity.ErrInvalidToken}
	}

	accessToken, accessExp, err := s.codec.Issue(acc.Email, s.accessTTL, now)
	if err != nil {
		return TokenPair{}, err
	}

	s.log.InfoContext(ctx, "account.refresh.ok", slog.String("account_id", acc.ID))
	return TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: claims.ExpiresAt,
	}, nil
}

// VerifyAccount consumes a pending verification code and enables the account.
func (s *Service) VerifyAccount(ctx context.Context, email, code string, now time.Time) error {
	const op = "account.VerifyAccount"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	acc, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}

	// No pending code (already enabled, or cleared) reads as an expired one.
	if acc.VerificationCode == nil || acc.VerificationCodeExpiresAt == nil {
		return identity.OpError{Op: op, Kind: identity.ErrCodeExpired}
	}
	if !acc.VerificationCodeExpiresAt.After(now) {
		return identity.OpError{Op: op, Kind: identity.ErrCodeExpired}
	}
	if !identity.VerificationCodeEqual(*acc.VerificationCode, code) {
		return identity.OpError{Op: op, Kind: identity.ErrCodeMismatch}
	}

	if err := s.store.EnableAccount(ctx, acc.ID, now); err != nil {
		return err
	}

	s.log.InfoContext(ctx, "account.verify.ok", slog.String("account_id", acc.ID))
	return nil
}

// ResendVerificationCode replaces the pending code, extends its expiry, and
// mails the new code.
func (s *Service) ResendVerificationCode(ctx context.Context, email string, now time.Time) error {
	const op = "account.ResendVerificationCode"

	if err := ctx.Err(); err != nil {
		return err
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	acc, err := s.store.GetAccountByEmail(ctx, email)
	if err != nil {
		return err
	}
	if acc.Enabled {
		return identity.OpError{Op: op, Kind: identity.ErrAlreadyVerified}
	}

	code, err := identity.NewVerificationCode()
	if err != nil {
		return err
	}
	if err := s.store.SetVerificationCode(ctx, acc.ID, code, now.Add(s.verifyCodeTTL), now); err != nil {
		return err
	}

	s.sendVerificationMail(ctx, acc.Email, code)
	s.log.InfoContext(ctx, "account.resend.ok", slog.String("account_id", acc.ID))
	return nil
}

func (s *Service) issuePair(subject string, now time.Time) (TokenPair, error) {
	accessToken, accessExp, err := s.codec.Issue(subject, s.accessTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	refreshToken, refreshExp, err := s.codec.Issue(subject, s.refreshTTL, now)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{
		AccessToken:      accessToken,
		AccessExpiresAt:  accessExp,
		RefreshToken:     refreshToken,
		RefreshExpiresAt: refreshExp,
	}, nil
}

// sendVerificationMail delivers best-effort: the account mutation has
// already succeeded, so delivery failure is logged and swallowed.
func (s *Service) sendVerificationMail(ctx context.Context, email, code string) {
	msg, err := notify.VerificationMessage(email, code)
	if err == nil {
		err = s.mailer.Send(ctx, msg)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "account.verification_mail.fail",
			slog.String("err", err.Error()),
		)
	}
}
