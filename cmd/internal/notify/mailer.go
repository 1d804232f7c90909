package notify

import (
	"context"
	"errors"
	"log/slog"
	"strings"
)

// Message is a single outbound email.
type Message struct {
	To      string
	Subject string
	// HTMLBody is a fully rendered HTML document.
	HTMLBody string
}

// ErrInvalidMessage is returned when a message is missing a recipient or subject.
var ErrInvalidMessage = errors.New("invalid message")

// Mailer sends account lifecycle email.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NoopMailer drops all mail. Used in tests and CI.
type NoopMailer struct{}

func (NoopMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}
	return nil
}

// LogMailer logs mail metadata instead of delivering. Used in dev runs
// without an SMTP endpoint. Bodies are never logged; they contain codes
// and reset links.
type LogMailer struct {
	Log *slog.Logger
}

func (m LogMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}

	log := m.Log
	if log == nil {
		log = slog.Default()
	}
	log.InfoContext(ctx, "notify.mail.logged",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.Int("body_bytes", len(msg.HTMLBody)),
	)
	return nil
}

func validateMessage(msg Message) error {
	if strings.TrimSpace(msg.To) == "" || strings.TrimSpace(msg.Subject) == "" {
		return ErrInvalidMessage
	}
	return nil
}
