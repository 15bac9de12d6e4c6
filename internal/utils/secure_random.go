package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var ten = big.NewInt(10)

// GenerateNumericCode returns a string of length random decimal digits drawn from crypto/rand.
// Leading zeros are kept, so every code has exactly length characters.
func GenerateNumericCode(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("length must be positive")
	}
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", fmt.Errorf("failed to read random digit: %w", err)
		}
		b[i] = byte('0' + n.Int64())
	}
	return string(b), nil
}

// IsNumericCode reports whether s consists of exactly length decimal digits.
func IsNumericCode(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
