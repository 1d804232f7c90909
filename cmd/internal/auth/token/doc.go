// Package token issues and verifies VectorEdu's signed bearer tokens.
//
// Access and refresh tokens are JWTs signed with HMAC-SHA256 over a shared
// secret. The subject claim carries the account email; no other identity
// data is embedded. Refresh tokens differ from access tokens only in TTL,
// so a refresh token presented as a bearer credential still verifies; the
// account service enforces which flows accept which token.
//
// The signing secret is read from VECTOREDU_JWT_SECRET and must be at least
// 32 bytes.
package token
