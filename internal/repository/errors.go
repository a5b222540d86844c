// Package repository implements data access over the studio database.
// Sentinel errors defined here let handlers distinguish failure scenarios
// without inspecting driver error strings themselves.
package repository

import "errors"

// ErrEmailExists is returned when creating a staff identity with an email
// that is already registered. Handlers translate this into HTTP 409.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeTaken is returned when a freshly generated client login code
// collides with an existing one. The fingerprint column carries a unique
// index, so two active clients can never share a code; callers should
// generate a new code and retry.
var ErrCodeTaken = errors.New("login code already taken")
