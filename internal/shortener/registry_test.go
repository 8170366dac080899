package shortener

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

// stubChecker treats every code in taken as existing and counts lookups
type stubChecker struct {
	taken map[string]bool
	calls int
	err   error
}

func (s *stubChecker) ShortCodeExists(ctx context.Context, shortCode string) (bool, error) {
	s.calls++
	if s.err != nil {
		return false, s.err
	}
	return s.taken[shortCode], nil
}

// sequence returns a producer that yields codes in order, then repeats the last
func sequence(codes ...string) Producer {
	i := 0
	return func() string {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code
	}
}

func TestRegistry_ReserveFirstFree(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{}}
	registry := NewRegistry(checker)

	reservation, err := registry.Reserve(context.Background(), sequence("abc123"), 10)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if reservation.Code != "abc123" {
		t.Errorf("Expected abc123, got %s", reservation.Code)
	}
	if reservation.Attempts != 1 {
		t.Errorf("Expected 1 attempt, got %d", reservation.Attempts)
	}
}

func TestRegistry_ReserveSkipsTakenCodes(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{"aaaaaa": true, "bbbbbb": true}}
	registry := NewRegistry(checker)

	reservation, err := registry.Reserve(context.Background(), sequence("aaaaaa", "bbbbbb", "cccccc"), 10)
	if err != nil {
		t.Fatalf("Reserve failed: %v", err)
	}

	if reservation.Code != "cccccc" {
		t.Errorf("Expected cccccc, got %s", reservation.Code)
	}
	if reservation.Attempts != 3 {
		t.Errorf("Expected 3 attempts, got %d", reservation.Attempts)
	}
	if checker.taken[reservation.Code] {
		t.Errorf("Reserved code %s is already in the store", reservation.Code)
	}
}

func TestRegistry_ReserveExhausted(t *testing.T) {
	for _, maxAttempts := range []int{1, 3, 10} {
		t.Run(fmt.Sprintf("max_%d", maxAttempts), func(t *testing.T) {
			checker := &stubChecker{taken: map[string]bool{"collide": true}}
			registry := NewRegistry(checker)

			produced := 0
			producer := func() string {
				produced++
				return "collide"
			}

			_, err := registry.Reserve(context.Background(), producer, maxAttempts)
			if !errors.Is(err, ErrShortCodeExhausted) {
				t.Fatalf("Expected ErrShortCodeExhausted, got %v", err)
			}

			var exhausted *ExhaustedError
			if !errors.As(err, &exhausted) {
				t.Fatalf("Expected *ExhaustedError, got %T", err)
			}
			if exhausted.Attempts != maxAttempts {
				t.Errorf("Expected %d attempts in error, got %d", maxAttempts, exhausted.Attempts)
			}
			if produced != maxAttempts {
				t.Errorf("Expected exactly %d candidates, got %d", maxAttempts, produced)
			}
			if checker.calls != maxAttempts {
				t.Errorf("Expected exactly %d store lookups, got %d", maxAttempts, checker.calls)
			}
		})
	}
}

func TestRegistry_ReserveDefaultAttempts(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{"collide": true}}
	registry := NewRegistry(checker)

	_, err := registry.Reserve(context.Background(), sequence("collide"), 0)
	if !errors.Is(err, ErrShortCodeExhausted) {
		t.Fatalf("Expected ErrShortCodeExhausted, got %v", err)
	}
	if checker.calls != DefaultMaxAttempts {
		t.Errorf("Expected %d lookups, got %d", DefaultMaxAttempts, checker.calls)
	}
}

func TestRegistry_ReserveStoreError(t *testing.T) {
	storeErr := errors.New("database is locked")
	checker := &stubChecker{err: storeErr}
	registry := NewRegistry(checker)

	_, err := registry.Reserve(context.Background(), sequence("abc123"), 10)
	if !errors.Is(err, storeErr) {
		t.Fatalf("Expected wrapped store error, got %v", err)
	}
	if errors.Is(err, ErrShortCodeExhausted) {
		t.Errorf("Store errors must not look like exhaustion")
	}
	if checker.calls != 1 {
		t.Errorf("Expected a single lookup, got %d", checker.calls)
	}
}

func TestRegistry_ReserveCancelledContext(t *testing.T) {
	checker := &stubChecker{taken: map[string]bool{}}
	registry := NewRegistry(checker)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := registry.Reserve(ctx, sequence("abc123"), 10)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
	if checker.calls != 0 {
		t.Errorf("Expected no lookups after cancellation, got %d", checker.calls)
	}
}
