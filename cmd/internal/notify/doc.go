// Package notify delivers account lifecycle email.
//
// The Mailer interface decouples the auth use cases from delivery. Three
// implementations ship:
//
//   - NoopMailer: drops mail (tests, CI)
//   - LogMailer: logs mail metadata via slog (dev runs without SMTP)
//   - SMTPMailer: real delivery over net/smtp with optional AUTH
//
// Bodies are rendered from embedded HTML templates. Delivery failures are
// reported to callers; the auth use cases decide whether a failed send
// fails the whole operation.
package notify
