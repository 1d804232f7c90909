package notify

import (
	"fmt"
	"html/template"
	"strings"
)

const (
	// SubjectVerification is the subject line of verification-code mail.
	SubjectVerification = "Account Verification"

	// SubjectPasswordReset is the subject line of password-reset mail.
	SubjectPasswordReset = "Password Reset"
)

var verificationTmpl = template.Must(template.New("verification").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<div style="background-color: #f5f5f5; padding: 20px;">
<h2 style="color: #333;">Welcome to VectorEdu!</h2>
<p style="font-size: 16px;">Please enter the verification code below to continue:</p>
<div style="background-color: #fff; padding: 20px; border-radius: 5px; box-shadow: 0 0 10px rgba(0,0,0,0.1);">
<h3 style="color: #333;">Verification Code:</h3>
<p style="font-size: 18px; font-weight: bold; color: #007bff;">{{.Code}}</p>
</div>
</div>
</body>
</html>`))

var passwordResetTmpl = template.Must(template.New("password_reset").Parse(`<html>
<body style="font-family: Arial, sans-serif;">
<div style="background-color: #f5f5f5; padding: 20px;">
<h2 style="color: #333;">Password Reset</h2>
<p style="font-size: 16px;">To reset your password, please follow the link below:</p>
<div style="background-color: #fff; padding: 20px; border-radius: 5px; box-shadow: 0 0 10px rgba(0,0,0,0.1);">
<a href="{{.ResetLink}}" style="font-size: 18px; font-weight: bold; color: #007bff; text-decoration: none;">Reset password</a>
</div>
</div>
</body>
</html>`))

// VerificationMessage renders the verification-code email for an account.
func VerificationMessage(to, code string) (Message, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(code) == "" {
		return Message{}, ErrInvalidMessage
	}

	var b strings.Builder
	if err := verificationTmpl.Execute(&b, struct{ Code string }{Code: code}); err != nil {
		return Message{}, fmt.Errorf("notify: render verification mail: %w", err)
	}
	return Message{
		To:       to,
		Subject:  SubjectVerification,
		HTMLBody: b.String(),
	}, nil
}

// PasswordResetMessage renders the reset-link email for an account.
// The link already embeds the one-time token as a query parameter.
func PasswordResetMessage(to, resetLink string) (Message, error) {
	if strings.TrimSpace(to) == "" || strings.TrimSpace(resetLink) == "" {
		return Message{}, ErrInvalidMessage
	}

	var b strings.Builder
	if err := passwordResetTmpl.Execute(&b, struct{ ResetLink string }{ResetLink: resetLink}); err != nil {
		return Message{}, fmt.Errorf("notify: render reset mail: %w", err)
	}
	return Message{
		To:       to,
		Subject:  SubjectPasswordReset,
		HTMLBody: b.String(),
	}, nil
}
