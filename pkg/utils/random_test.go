package utils

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateShortCode(t *testing.T) {
	length := 5
	code := GenerateShortCode(length)

	assert.Equal(t, length, len(code))

	// Ensure only charset characters are used
	for _, char := range code {
		assert.True(t, strings.Contains(charset, string(char)))
	}
}

func TestGenerateShortCode_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 20; i++ {
		seen[GenerateShortCode(8)] = struct{}{}
	}
	assert.Greater(t, len(seen), 1)
}

func TestGenerateShortCode_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	codes := make(chan string, 8*500)
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 500; i++ {
				codes <- GenerateShortCode(5)
			}
		}()
	}
	wg.Wait()
	close(codes)

	for code := range codes {
		assert.Len(t, code, 5)
	}
}
