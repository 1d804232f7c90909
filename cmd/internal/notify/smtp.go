package notify

import (
	"context"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"os"
	"strings"
)

// SMTPConfig defines delivery configuration for SMTPMailer.
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
}

// LoadSMTPConfigFromEnv loads SMTP configuration from environment variables.
//
// Required when the smtp mailer is selected:
//   - VECTOREDU_SMTP_HOST
//   - VECTOREDU_SMTP_FROM
//
// Optional:
//   - VECTOREDU_SMTP_PORT (default "587")
//   - VECTOREDU_SMTP_USERNAME
//   - VECTOREDU_SMTP_PASSWORD
func LoadSMTPConfigFromEnv() (SMTPConfig, error) {
	cfg := SMTPConfig{
		Host:     strings.TrimSpace(os.Getenv("VECTOREDU_SMTP_HOST")),
		Port:     strings.TrimSpace(os.Getenv("VECTOREDU_SMTP_PORT")),
		Username: os.Getenv("VECTOREDU_SMTP_USERNAME"),
		Password: os.Getenv("VECTOREDU_SMTP_PASSWORD"),
		From:     strings.TrimSpace(os.Getenv("VECTOREDU_SMTP_FROM")),
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	if cfg.Host == "" || cfg.From == "" {
		return SMTPConfig{}, fmt.Errorf("notify: smtp host and from are required")
	}
	return cfg, nil
}

// SMTPMailer delivers mail over SMTP with optional PLAIN auth.
type SMTPMailer struct {
	cfg SMTPConfig
}

// NewSMTPMailer constructs an SMTPMailer.
func NewSMTPMailer(cfg SMTPConfig) (*SMTPMailer, error) {
	if strings.TrimSpace(cfg.Host) == "" || strings.TrimSpace(cfg.From) == "" {
		return nil, fmt.Errorf("notify: smtp host and from are required")
	}
	if cfg.Port == "" {
		cfg.Port = "587"
	}
	return &SMTPMailer{cfg: cfg}, nil
}

// Send delivers one HTML message. The context is honored before dialing;
// net/smtp itself does not accept a context.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateMessage(msg); err != nil {
		return err
	}

	var auth smtp.Auth
	if m.cfg.Username != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	addr := net.JoinHostPort(m.cfg.Host, m.cfg.Port)
	payload := buildMIME(m.cfg.From, msg)

	if err := smtp.SendMail(addr, auth, m.cfg.From, []string{msg.To}, payload); err != nil {
		return fmt.Errorf("notify: smtp send: %w", err)
	}
	return nil
}

func buildMIME(from string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.HTMLBody)
	b.WriteString("\r\n")
	return []byte(b.String())
}
