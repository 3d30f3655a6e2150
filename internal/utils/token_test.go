package utils

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestNewAccessTokenClaims(t *testing.T) {
	access, err := NewAccessToken("test-secret", 42, "alice", "moderator", 15)
	assert.NoError(t, err)
	assert.NotEmpty(t, access.Token)

	tok, err := jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	assert.NoError(t, err)
	assert.True(t, tok.Valid)

	claims := tok.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "alice", claims["username"])
	assert.Equal(t, "moderator", claims["role"])
}

func TestNewAccessTokenWrongSecret(t *testing.T) {
	access, err := NewAccessToken("secret-a", 1, "bob", "user", 15)
	assert.NoError(t, err)

	_, err = jwt.Parse(access.Token, func(tk *jwt.Token) (interface{}, error) {
		return []byte("secret-b"), nil
	})
	assert.Error(t, err)
}

func TestNewConfirmationCode(t *testing.T) {
	a, err := NewConfirmationCode()
	assert.NoError(t, err)
	assert.Len(t, a, 32)

	b, err := NewConfirmationCode()
	assert.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashAndVerifyCode(t *testing.T) {
	hash, err := HashCode("abc123", bcrypt.MinCost)
	assert.NoError(t, err)
	assert.NotEqual(t, "abc123", hash)

	assert.True(t, VerifyCode(hash, "abc123"))
	assert.False(t, VerifyCode(hash, "abc124"))
	assert.False(t, VerifyCode("not-a-hash", "abc123"))
}
