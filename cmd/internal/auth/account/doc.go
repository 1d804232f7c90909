// Package account implements VectorEdu's account lifecycle use cases:
// signup, login, token refresh, verification, and code resend.
//
// The Service owns the error taxonomy and every lifecycle invariant; its
// collaborators (store, hasher, mailer, token codec) are injected as
// interfaces so tests substitute in-memory fakes. All errors surface as
// identity kinds; the HTTP layer maps kinds to statuses without inspecting
// messages.
package account
