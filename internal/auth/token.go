package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenValidity is how long a session token lives. There is no refresh
// mechanism; an expired token requires a fresh login.
const TokenValidity = 7 * 24 * time.Hour

// markerRole is the fixed "role" claim carried by every session token.
// The identity's actual application role travels in app_role.
const markerRole = "authenticated"

// SessionClaims is the claim set embedded in a session token: the identity
// id as subject, the authenticated marker, the application role
// (admin/staff/client) and, for staff tokens, the login email.
type SessionClaims struct {
	jwt.RegisteredClaims
	Role    string `json:"role"`
	AppRole string `json:"app_role"`
	Email   string `json:"email,omitempty"`
}

// NewSessionToken signs an HS256 session token for an identity. email may
// be empty (client logins carry no email claim).
func NewSessionToken(secret, userID, appRole, email string) (string, error) {
	if secret == "" {
		return "", ErrNotConfigured
	}
	now := time.Now().UTC()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TokenValidity)),
		},
		Role:    markerRole,
		AppRole: appRole,
		Email:   email,
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString([]byte(secret))
}

var errInvalidToken = errors.New("invalid token")

// ParseSessionToken validates a bearer token and returns its claims. Only
// HMAC-signed tokens are accepted.
func ParseSessionToken(secret, raw string) (*SessionClaims, error) {
	claims := &SessionClaims{}
	tok, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !tok.Valid {
		return nil, errInvalidToken
	}
	return claims, nil
}
