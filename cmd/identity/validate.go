package identity

import (
	"regexp"
	"strings"
)

// emailRe matches a conventional local@domain.tld address. The pattern is
// deliberately conservative: deliverability is proven by the verification
// code, not by the regex.
var emailRe = regexp.MustCompile(`^[a-zA-Z0-9_+&*-]+(?:\.[a-zA-Z0-9_+&*-]+)*@(?:[a-zA-Z0-9-]+\.)+[a-zA-Z]{2,7}$`)

// ValidateEmail checks email shape. Pure; no store access.
func ValidateEmail(email string) error {
	const op = "identity.ValidateEmail"

	if strings.TrimSpace(email) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "email is required"}
	}
	if !emailRe.MatchString(email) {
		return OpError{Op: op, Kind: ErrValidation, Msg: "invalid email format"}
	}
	return nil
}

// ValidateDisplayName checks display-name shape. Pure; no store access.
func ValidateDisplayName(name string) error {
	const op = "identity.ValidateDisplayName"

	if strings.TrimSpace(name) == "" {
		return OpError{Op: op, Kind: ErrValidation, Msg: "display name is required"}
	}
	return nil
}
