// Package utils provides small helpers shared across handlers, currently
// password hashing.
package utils

import "golang.org/x/crypto/bcrypt"

// MinPasswordLength is enforced at registration and password change.
const MinPasswordLength = 8

// HashPassword returns a bcrypt hash of plain using the given cost.
func HashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword safely compares a bcrypt hash and a plain password.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
