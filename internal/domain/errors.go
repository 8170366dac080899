package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a short code or config does not exist or is inactive
	ErrNotFound = errors.New("not found")

	// ErrDuplicateShortCode is returned when the store's uniqueness constraint rejects an insert.
	// Callers should treat it as retryable.
	ErrDuplicateShortCode = errors.New("duplicate short code")

	// ErrInvalidInput is matched by every ValidationError
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError describes a rejected request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}
