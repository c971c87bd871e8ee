package utils

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/rand"
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %v", err)
	}
	return string(hashed), nil
}

// CheckPassword compares a plaintext password against its stored hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// GenerateResetCode returns a 6-digit code for the password-reset email.
func GenerateResetCode() string {
	return fmt.Sprintf("%06d", rand.Intn(1000000))
}
