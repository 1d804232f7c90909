package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func TestVerificationMessage_RendersCode(t *testing.T) {
	t.Parallel()

	msg, err := VerificationMessage("user@example.com", "123456")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.To != "user@example.com" {
		t.Fatalf("unexpected recipient %q", msg.To)
	}
	if msg.Subject != SubjectVerification {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, "123456") {
		t.Fatalf("expected code in body")
	}
	if !strings.Contains(msg.HTMLBody, "Verification Code") {
		t.Fatalf("expected verification heading in body")
	}
}

func TestVerificationMessage_EscapesHTML(t *testing.T) {
	t.Parallel()

	msg, err := VerificationMessage("user@example.com", `<script>alert(1)</script>`)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(msg.HTMLBody, "<script>") {
		t.Fatalf("expected escaped body, got raw script tag")
	}
}

func TestPasswordResetMessage_RendersLink(t *testing.T) {
	t.Parallel()

	link := "https://localhost:8080/auth/reset-password?token=abc-def"
	msg, err := PasswordResetMessage("user@example.com", link)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if msg.Subject != SubjectPasswordReset {
		t.Fatalf("unexpected subject %q", msg.Subject)
	}
	if !strings.Contains(msg.HTMLBody, link) {
		t.Fatalf("expected reset link in body")
	}
}

func TestMessages_RequireInputs(t *testing.T) {
	t.Parallel()

	if _, err := VerificationMessage("", "123456"); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got: %v", err)
	}
	if _, err := VerificationMessage("user@example.com", ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got: %v", err)
	}
	if _, err := PasswordResetMessage("user@example.com", ""); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got: %v", err)
	}
}

func TestNoopAndLogMailer_ValidateMessages(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	msg := Message{To: "user@example.com", Subject: "s", HTMLBody: "<p>hi</p>"}

	if err := (NoopMailer{}).Send(ctx, msg); err != nil {
		t.Fatalf("noop send: %v", err)
	}
	if err := (NoopMailer{}).Send(ctx, Message{}); !errors.Is(err, ErrInvalidMessage) {
		t.Fatalf("expected ErrInvalidMessage, got: %v", err)
	}

	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	if err := (LogMailer{Log: log}).Send(ctx, msg); err != nil {
		t.Fatalf("log send: %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := (LogMailer{Log: log}).Send(canceled, msg); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context error, got: %v", err)
	}
}

func TestNewMailerFromEnv(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	t.Setenv(MailerEnvKey, "noop")
	m, err := NewMailerFromEnv(log)
	if err != nil {
		t.Fatalf("noop: %v", err)
	}
	if _, ok := m.(NoopMailer); !ok {
		t.Fatalf("expected NoopMailer, got %T", m)
	}

	t.Setenv(MailerEnvKey, "")
	m, err = NewMailerFromEnv(log)
	if err != nil {
		t.Fatalf("default: %v", err)
	}
	if _, ok := m.(LogMailer); !ok {
		t.Fatalf("expected LogMailer, got %T", m)
	}

	t.Setenv(MailerEnvKey, "smtp")
	t.Setenv("VECTOREDU_SMTP_HOST", "")
	if _, err := NewMailerFromEnv(log); err == nil {
		t.Fatalf("expected error for smtp without host")
	}

	t.Setenv(MailerEnvKey, "carrier-pigeon")
	if _, err := NewMailerFromEnv(log); err == nil {
		t.Fatalf("expected error for unknown mailer")
	}
}
