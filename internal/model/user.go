package model

import "time"

// Roles as stored in users.role. Admin and staff authenticate with an
// email + password; clients authenticate with a six-digit access code.
const (
	RoleAdmin  = "admin"
	RoleStaff  = "staff"
	RoleClient = "client"
)

// Lifecycle states. Identities are archived, never hard-deleted.
const (
	StatusActive   = "active"
	StatusArchived = "archived"
)

// User mirrors the `users` table. The credential columns come in pairs: a
// deprecated plaintext column left over from the previous system and the
// hash columns that replaced it. Verification always goes through the hash
// columns; the plaintext ones exist only as migration input and get dropped
// once the backfill has been verified.
//
//	Password      – users.password (legacy plaintext, admin/staff only)
//	PasswordHash  – users.password_hash (bcrypt, authoritative)
//	LoginCode     – users.login_code (legacy plaintext six-digit code)
//	LoginCodeSHA  – users.login_code_sha (salted fingerprint, lookup key)
//	LoginCodeHash – users.login_code_hash (bcrypt, authoritative)
type User struct {
	ID            string  // users.id (uuid)
	Name          string  // users.name
	Role          string  // users.role
	Status        string  // users.status
	Email         *string // users.email (unique when present)
	Phone         *string // users.phone
	Password      *string
	PasswordHash  *string
	LoginCode     *string
	LoginCodeSHA  *string
	LoginCodeHash *string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsStaffRole reports whether a role authenticates on the password path.
func IsStaffRole(role string) bool {
	return role == RoleAdmin || role == RoleStaff
}
