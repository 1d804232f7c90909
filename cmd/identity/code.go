package identity

import (
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
)

// Verification codes are 6-digit numeric strings in [100000, 999999].
// They gate account activation and are short-lived; entropy comes from
// crypto/rand to avoid predictable codes.

var codeSpan = big.NewInt(900000)

// NewVerificationCode returns a fresh 6-digit verification code.
func NewVerificationCode() (string, error) {
	n, err := rand.Int(rand.Reader, codeSpan)
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}

// VerificationCodeEqual compares a supplied code against the stored one in
// constant time. Both are expected to be 6 chars; any other length is a
// mismatch without leaking which input was malformed.
func VerificationCodeEqual(stored, supplied string) bool {
	if len(stored) != 6 || len(supplied) != 6 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(supplied)) == 1
}
