// Package ratelimit provides fixed-window request limiters keyed by caller.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Limiter decides whether a request identified by key may proceed
type Limiter interface {
	Check(ctx context.Context, key string) (Decision, error)
}

// Decision is the result of a limiter check
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfter returns how long until the window resets, rounded up to a whole second
func (d Decision) RetryAfter(now time.Time) time.Duration {
	wait := d.ResetAt.Sub(now)
	if wait <= 0 {
		return time.Second
	}
	return (wait + time.Second - 1).Truncate(time.Second)
}

// Config holds limiter settings
type Config struct {
	Requests int           // requests allowed per window
	Window   time.Duration // window length
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Requests: 60,
		Window:   time.Minute,
	}
}

// Validate checks the limiter settings
func (c Config) Validate() error {
	if c.Requests <= 0 {
		return fmt.Errorf("rate limit requests must be greater than 0")
	}
	if c.Window <= 0 {
		return fmt.Errorf("rate limit window must be greater than 0")
	}
	return nil
}

func decide(cfg Config, count int, resetAt time.Time) Decision {
	remaining := cfg.Requests - count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Allowed:   count <= cfg.Requests,
		Limit:     cfg.Requests,
		Remaining: remaining,
		ResetAt:   resetAt,
	}
}
