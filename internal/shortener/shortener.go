package shortener

import (
	"crypto/rand"
	"math/big"
)

// Alphabet used for generated short codes: 0-9, A-Z, a-z, hyphen and
// underscore. 64 symbols keeps collision probability negligible at expected
// scale while staying URL-safe without percent-encoding.
const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz-_"

// MinLength is the shortest code the generator will produce
const MinLength = 7

// CodeGenerator generates short codes using cryptographically secure
// random numbers. Thread-safe and collision-resistant.
type CodeGenerator struct {
	length int // Length of generated codes
}

// NewCodeGenerator creates a new code generator with the given length.
// Lengths below MinLength are clamped up:
// - 7 chars = 64^7 = ~4.4 trillion combinations
// - 8 chars = 64^8 = ~281 trillion combinations
func NewCodeGenerator(length int) *CodeGenerator {
	if length < MinLength {
		length = MinLength
	}
	if length > 12 {
		length = 12 // Maximum reasonable length
	}

	return &CodeGenerator{
		length: length,
	}
}

// Length returns the configured code length
func (g *CodeGenerator) Length() int {
	return g.length
}

// Generate creates a random short code from the code alphabet.
// Uses crypto/rand so codes are not guessable or enumerable. Uniqueness is
// not guaranteed here; the caller checks the store and retries on collision.
func (g *CodeGenerator) Generate() string {
	result := make([]byte, g.length)

	for i := 0; i < g.length; i++ {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(codeAlphabet))))
		if err != nil {
			// Fallback to a deterministic index if crypto/rand fails.
			// This should rarely happen in practice.
			num = big.NewInt(int64(i % len(codeAlphabet)))
		}

		result[i] = codeAlphabet[num.Int64()]
	}

	return string(result)
}

// InAlphabet reports whether every character of code belongs to the
// generation alphabet. Custom aliases share the same character set.
func InAlphabet(code string) bool {
	if code == "" {
		return false
	}
	for _, c := range code {
		switch {
		case c >= '0' && c <= '9':
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c == '-' || c == '_':
		default:
			return false
		}
	}
	return true
}
