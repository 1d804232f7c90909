package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the minimal identity envelope carried by a verified token.
type Claims struct {
	Subject   string
	Issuer    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Codec issues and verifies signed bearer tokens.
type Codec interface {
	// Issue signs a token whose subject is the account email.
	Issue(subject string, ttl time.Duration, now time.Time) (token string, exp time.Time, err error)

	// Verify checks signature, issuer, and expiry at the supplied instant.
	Verify(token string, now time.Time) (Claims, error)

	// Subject extracts the subject claim WITHOUT verifying the signature.
	// Callers use it to locate the account before full verification; it must
	// never be trusted on its own.
	Subject(token string) (string, error)
}

type hs256Codec struct {
	issuer    string
	clockSkew time.Duration
	secret    []byte
}

// NewHS256Codec builds a Codec signing with HMAC-SHA256.
//
// It enforces issuer and expiration rules. Clock skew is applied during
// verification to tolerate minor clock differences between hosts.
func NewHS256Codec(cfg Config) (Codec, error) {
	if len(cfg.Secret) < minSecretBytes {
		return nil, ErrConfig
	}
	if cfg.Issuer == "" {
		return nil, ErrConfig
	}
	return &hs256Codec{
		issuer:    cfg.Issuer,
		clockSkew: cfg.ClockSkew,
		secret:    cfg.Secret,
	}, nil
}

func (c *hs256Codec) Issue(subject string, ttl time.Duration, now time.Time) (string, time.Time, error) {
	if subject == "" || ttl <= 0 {
		return "", time.Time{}, ErrInvalidToken
	}

	exp := now.Add(ttl)

	claims := jwt.RegisteredClaims{
		Issuer:    c.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now), // Tokens valid immediately.
		ExpiresAt: jwt.NewNumericDate(exp),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (c *hs256Codec) Verify(token string, now time.Time) (Claims, error) {
	if token == "" {
		return Claims{}, ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(t *jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(c.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithLeeway(c.clockSkew),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		return Claims{}, ErrInvalidToken
	}
	if claims.Subject == "" {
		return Claims{}, ErrInvalidToken
	}

	out := Claims{
		Subject: claims.Subject,
		Issuer:  claims.Issuer,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func (c *hs256Codec) Subject(token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return "", ErrInvalidToken
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
