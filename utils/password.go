package utils

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// MinPasswordLength matches the shortest password accepted at registration
const MinPasswordLength = 8

// GenerateSecurePassword creates a random URL-safe password of the given length
func GenerateSecurePassword(length int) (string, error) {
	if length < MinPasswordLength {
		length = MinPasswordLength
	}

	// base64 yields 4 characters per 3 bytes
	b := make([]byte, (length*3)/4+3)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b)[:length], nil
}
