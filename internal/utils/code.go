package utils

import "golang.org/x/crypto/bcrypt"

// HashCode returns the bcrypt hash of a confirmation code using the given cost.
func HashCode(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyCode safely compares a bcrypt hash and a plain confirmation code.
func VerifyCode(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
