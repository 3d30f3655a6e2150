package utils // package utils provides helpers for token and confirmation code handling

import (
	"crypto/rand" // secure random generation for confirmation codes
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessToken represents a signed JWT access token along with its expiry.
// Access tokens are the only credential the API issues: they are obtained
// by exchanging a confirmation code and carried in the Authorization
// header on protected endpoints.
type AccessToken struct {
	Token string    // the serialized JWT string
	Exp   time.Time // the UTC expiration time
}

// NewAccessToken builds and signs an HS256 JWT for a user. Claims are the
// subject (sub), the username, the role, expiration (exp) and issued at
// (iat). Handlers rely on sub and role for authorization decisions and on
// username for author attribution.
func NewAccessToken(secret string, userID uint64, username, role string, ttlMin int) (AccessToken, error) {
	exp := time.Now().UTC().Add(time.Duration(ttlMin) * time.Minute)
	claims := jwt.MapClaims{
		"sub":      userID,
		"username": username,
		"role":     role,
		"exp":      exp.Unix(),
		"iat":      time.Now().UTC().Unix(),
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString([]byte(secret))
	if err != nil {
		return AccessToken{}, err
	}
	return AccessToken{Token: signed, Exp: exp}, nil
}

// NewConfirmationCode returns a cryptographically secure random code to be
// delivered by email. 16 bytes encoded as 32 hex characters keeps the code
// short enough to retype from a mail client.
func NewConfirmationCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
