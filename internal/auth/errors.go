// Package auth implements the credential primitives of the studio backend:
// secret hashing, the searchable login-code fingerprint and the session
// token. The login handler maps their failures onto the HTTP error
// vocabulary at the request boundary.
package auth

import "errors"

// ErrNotConfigured is returned when the token signing secret is absent.
// Callers translate it into a generic 500 without naming the missing value.
var ErrNotConfigured = errors.New("auth not configured")

// ErrNilHash signals a caller contract violation: VerifySecret was handed
// an empty stored hash. A null hash means "account not migrated" and must
// be handled before verification, never treated as a mismatch.
var ErrNilHash = errors.New("stored hash is empty")
