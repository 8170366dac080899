package shortener

import (
	"math/rand"
)

const (
	// Alphabet holds the 62 characters short codes are drawn from
	Alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// DefaultLength gives roughly 56 billion distinct codes
	DefaultLength = 6

	// maxCodeLength bounds what the dispatcher will look up
	maxCodeLength = 64
)

// Generate returns a code of the given length whose characters are chosen
// independently and uniformly from Alphabet. A non-positive length means DefaultLength.
func Generate(length int) string {
	if length <= 0 {
		length = DefaultLength
	}

	code := make([]byte, length)
	for i := range code {
		code[i] = Alphabet[rand.Intn(len(Alphabet))]
	}
	return string(code)
}

// IsValidCode reports whether s could be a short code
func IsValidCode(s string) bool {
	if s == "" || len(s) > maxCodeLength {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// RandomGenerator generates fixed-length random codes
type RandomGenerator struct {
	length int
}

// NewRandomGenerator creates a generator for codes of the given length
func NewRandomGenerator(length int) *RandomGenerator {
	if length <= 0 {
		length = DefaultLength
	}
	return &RandomGenerator{length: length}
}

// GenerateShortCode returns a random candidate code
func (g *RandomGenerator) GenerateShortCode() string {
	return Generate(g.length)
}

// Length returns the configured code length
func (g *RandomGenerator) Length() int {
	return g.length
}

// Type returns the generator type
func (g *RandomGenerator) Type() string {
	return TypeRandom
}

// Producer adapts the generator for Registry.Reserve
func (g *RandomGenerator) Producer() Producer {
	return g.GenerateShortCode
}

// Ensure RandomGenerator implements Generator interface
var _ Generator = (*RandomGenerator)(nil)
