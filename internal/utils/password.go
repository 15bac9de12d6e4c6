package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// MaxCredentialBytes is the longest input bcrypt accepts.
const MaxCredentialBytes = 72

// ErrCredentialTooLong is returned by HashPassword for credentials over MaxCredentialBytes.
var ErrCredentialTooLong = bcrypt.ErrPasswordTooLong

// HashPassword hashes a plaintext credential using bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// CheckPasswordHash compares a plaintext credential with a bcrypt hash.
// bcrypt performs the comparison in constant time.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
