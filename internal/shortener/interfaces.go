package shortener

import (
	"context"
	"fmt"
)

// Generator defines the interface for generating short codes
type Generator interface {
	// GenerateShortCode returns a candidate short code. Uniqueness is not guaranteed.
	GenerateShortCode() string

	// Length returns the number of characters in generated codes
	Length() int

	// Type returns the type identifier of the generator
	Type() string
}

// Producer yields candidate codes for Registry.Reserve
type Producer func() string

// CodeChecker reports whether a short code is already taken in the persistent store
type CodeChecker interface {
	ShortCodeExists(ctx context.Context, shortCode string) (bool, error)
}

// Config holds configuration for short code generation and reservation
type Config struct {
	Length      int `json:"length"`       // Characters per generated code
	MaxAttempts int `json:"max_attempts"` // Candidates tried before giving up
}

// Generator type constants
const (
	TypeRandom = "random"
)

// Limits accepted for configured and per-request code lengths
const (
	MinLength = 4
	MaxLength = 32
)

// DefaultConfig returns the default configuration
func DefaultConfig() Config {
	return Config{
		Length:      DefaultLength,
		MaxAttempts: DefaultMaxAttempts,
	}
}

// Validate checks the configured values
func (c Config) Validate() error {
	if c.Length < MinLength || c.Length > MaxLength {
		return fmt.Errorf("short code length must be between %d and %d, got: %d", MinLength, MaxLength, c.Length)
	}
	if c.MaxAttempts <= 0 {
		return fmt.Errorf("max attempts must be positive, got: %d", c.MaxAttempts)
	}
	return nil
}
