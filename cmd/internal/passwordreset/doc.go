// Package passwordreset implements the self-service password recovery flow.
//
// A reset request mints an opaque one-time token (UUID), stores only its
// hash with a short expiry, and mails the account holder a link embedding
// the plain token. At most one live token exists per account; requesting
// again invalidates the previous link. Consuming a token replaces the
// password and deletes the token row in the same flow.
//
// Tokens are hashed with HMAC-SHA256 when VECTOREDU_TOKEN_HMAC_KEY is set,
// SHA-256 otherwise; plaintext never touches the database.
package passwordreset
