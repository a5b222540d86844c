package auth

import "golang.org/x/crypto/bcrypt"

// BcryptCost is the work factor used for every stored secret. Rows written
// by the previous system used the same factor, so verification cost is
// uniform across migrated and freshly created identities.
const BcryptCost = 10

// HashSecret returns a salted bcrypt hash of the secret. Each call salts
// independently, so two hashes of the same secret never compare equal.
func HashSecret(secret string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(secret), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifySecret compares a stored bcrypt hash against a candidate secret.
// A malformed hash is a plain mismatch, not an error; an empty hash is a
// caller bug and reported as ErrNilHash.
func VerifySecret(secret, hash string) (bool, error) {
	if hash == "" {
		return false, ErrNilHash
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil, nil
}
