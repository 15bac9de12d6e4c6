package utils

import (
	"crypto/sha256"
	"encoding/hex"
)

// Fingerprint returns a short SHA256 digest of a secret-ish value (push tokens, ID tokens)
// so it can be correlated in logs without being written out.
func Fingerprint(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:])[:12]
}
