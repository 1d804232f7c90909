package identity

import "testing"

func TestValidateEmail(t *testing.T) {
	t.Parallel()

	valid := []string{
		"user@example.com",
		"first.last@example.com",
		"user+tag@example.co.uk",
		"under_score@sub.example.org",
		"dash-ok@ex-ample.com",
	}
	for _, email := range valid {
		if err := ValidateEmail(email); err != nil {
			t.Errorf("ValidateEmail(%q) = %v, want nil", email, err)
		}
	}

	invalid := []string{
		"",
		"   ",
		"plainaddress",
		"@example.com",
		"user@",
		"user@example",
		"user@@example.com",
		"user@example.toolongtld",
		"user example@example.com",
		".leading@example.com",
	}
	for _, email := range invalid {
		err := ValidateEmail(email)
		if err == nil {
			t.Errorf("ValidateEmail(%q) = nil, want validation error", email)
			continue
		}
		if !IsValidation(err) {
			t.Errorf("ValidateEmail(%q) = %v, want validation kind", email, err)
		}
	}
}

func TestValidateDisplayName(t *testing.T) {
	t.Parallel()

	if err := ValidateDisplayName("Navid"); err != nil {
		t.Fatalf("ValidateDisplayName: %v", err)
	}
	for _, name := range []string{"", "   "} {
		if err := ValidateDisplayName(name); !IsValidation(err) {
			t.Errorf("ValidateDisplayName(%q) = %v, want validation kind", name, err)
		}
	}
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	if got := NormalizeEmail("  User@EXAMPLE.com "); got != "user@example.com" {
		t.Fatalf("NormalizeEmail = %q", got)
	}
	if got := NormalizeDisplayName("  NaViD "); got != "navid" {
		t.Fatalf("NormalizeDisplayName = %q", got)
	}
}
