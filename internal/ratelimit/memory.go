package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// MemoryLimiter counts requests per key in process memory
type MemoryLimiter struct {
	cfg     Config
	limiter *limiter.Limiter
}

// NewMemoryLimiter creates an in-process fixed-window limiter. Expired
// counters are swept once per window.
func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	store := memory.NewStoreWithOptions(limiter.StoreOptions{
		Prefix:          "linkbio:ratelimit",
		CleanUpInterval: cfg.Window,
	})

	return &MemoryLimiter{
		cfg: cfg,
		limiter: limiter.New(store, limiter.Rate{
			Period: cfg.Window,
			Limit:  int64(cfg.Requests),
		}),
	}
}

// Check counts the request against key's current window
func (l *MemoryLimiter) Check(ctx context.Context, key string) (Decision, error) {
	res, err := l.limiter.Get(ctx, key)
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	return Decision{
		Allowed:   !res.Reached,
		Limit:     int(res.Limit),
		Remaining: int(res.Remaining),
		ResetAt:   time.Unix(res.Reset, 0),
	}, nil
}

var _ Limiter = (*MemoryLimiter)(nil)
