package password

import (
	"unicode"
	"unicode/utf8"
)

// Validate checks password policy. It does not mutate input.
func (c Config) Validate(password string) error {
	// Count characters (runes), not bytes, to be user-friendly.
	n := utf8.RuneCountInString(password)

	if n < c.Policy.MinLength {
		return ErrPasswordTooShort
	}
	if n > c.Policy.MaxLength {
		return ErrPasswordTooLong
	}

	if c.Policy.RequireUppercase && !containsClass(password, unicode.IsUpper) {
		return ErrMissingUppercase
	}
	if c.Policy.RequireDigit && !containsClass(password, unicode.IsDigit) {
		return ErrMissingDigit
	}

	return nil
}

func containsClass(s string, isClass func(rune) bool) bool {
	for _, r := range s {
		if isClass(r) {
			return true
		}
	}
	return false
}
