package notify

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// MailerEnvKey selects the mailer implementation: "noop", "log" (default), or "smtp".
const MailerEnvKey = "VECTOREDU_MAILER"

// NewMailerFromEnv constructs the configured Mailer.
//
// "log" is the default so local runs surface mail activity without an SMTP
// endpoint. "smtp" additionally requires LoadSMTPConfigFromEnv to succeed.
func NewMailerFromEnv(log *slog.Logger) (Mailer, error) {
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(MailerEnvKey)))

	switch mode {
	case "", "log":
		return LogMailer{Log: log}, nil
	case "noop":
		return NoopMailer{}, nil
	case "smtp":
		cfg, err := LoadSMTPConfigFromEnv()
		if err != nil {
			return nil, err
		}
		return NewSMTPMailer(cfg)
	default:
		return nil, fmt.Errorf("notify: unknown mailer %q", mode)
	}
}
