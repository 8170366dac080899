package shortener

import (
	"fmt"
)

// NewGenerator creates the generator described by config
func NewGenerator(config Config) (Generator, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid shortener config: %w", err)
	}

	return NewRandomGenerator(config.Length), nil
}
