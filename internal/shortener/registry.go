package shortener

import (
	"context"
	"errors"
	"fmt"
)

// DefaultMaxAttempts is the reservation budget when none is given
const DefaultMaxAttempts = 10

// ErrShortCodeExhausted is matched by ExhaustedError
var ErrShortCodeExhausted = errors.New("short code space exhausted")

// ExhaustedError reports that no unique code was found within the attempt budget
type ExhaustedError struct {
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("no unique short code after %d attempts", e.Attempts)
}

func (e *ExhaustedError) Is(target error) bool {
	return target == ErrShortCodeExhausted
}

// Reservation is a code that was unused at the time of the check
type Reservation struct {
	Code     string
	Attempts int
}

// Registry checks candidate codes against the persistent store.
//
// The check is advisory: two concurrent reservations can both see a code as
// free. The store's uniqueness constraint is the real guard, and inserts that
// hit it (domain.ErrDuplicateShortCode) should be retried with a new reservation.
type Registry struct {
	checker CodeChecker
}

// NewRegistry creates a registry backed by the given checker
func NewRegistry(checker CodeChecker) *Registry {
	return &Registry{checker: checker}
}

// Reserve draws candidates from produce until one is not in the store, trying
// at most maxAttempts candidates. A non-positive maxAttempts means DefaultMaxAttempts.
func (r *Registry) Reserve(ctx context.Context, produce Producer, maxAttempts int) (Reservation, error) {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Reservation{}, err
		}

		code := produce()
		exists, err := r.checker.ShortCodeExists(ctx, code)
		if err != nil {
			return Reservation{}, fmt.Errorf("failed to check short code: %w", err)
		}
		if !exists {
			return Reservation{Code: code, Attempts: attempt}, nil
		}
	}

	return Reservation{}, &ExhaustedError{Attempts: maxAttempts}
}
