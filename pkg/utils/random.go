package utils

import (
	"math/rand"
)

const charset = "abcdefghijklmnopqrstuvwxyz0123456789"

// GenerateShortCode generates a random base36 string of fixed length.
// There is no uniqueness guarantee. Safe for concurrent use.
func GenerateShortCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
