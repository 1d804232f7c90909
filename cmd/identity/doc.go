// Package identity implements VectorEdu's account domain.
//
// It contains the account model and lifecycle invariants, the error taxonomy
// shared by services and the HTTP layer, validation policy for signup input,
// verification-code primitives, and the account persistence boundary with
// Postgres and in-memory implementations.
//
// This package is intentionally dependency-light and security-first.
package identity
