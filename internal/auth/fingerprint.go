package auth

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// FingerprintCode returns the searchable fingerprint of a client login
// code: the hex SHA-256 digest of "code:salt", where salt is server-wide
// configuration. Unlike the bcrypt hash, the fingerprint is deterministic,
// which is what makes login_code_sha usable as an indexed equality lookup
// key. The digest layout must not change: rows written by the previous
// system already store fingerprints in this exact format.
func FingerprintCode(code, salt string) string {
	sum := sha256.Sum256([]byte(code + ":" + salt))
	return hex.EncodeToString(sum[:])
}

var codePattern = regexp.MustCompile(`^\d{6}$`)

// ValidCode reports whether a trimmed login code has the required shape:
// exactly six decimal digits.
func ValidCode(code string) bool {
	return codePattern.MatchString(code)
}
