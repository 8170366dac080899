package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisLimiter shares fixed-window counters across server replicas
type RedisLimiter struct {
	rdb    *redis.Client
	cfg    Config
	prefix string
	now    func() time.Time
}

// NewRedisLimiter creates a limiter storing counters under prefix
func NewRedisLimiter(rdb *redis.Client, cfg Config, prefix string) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, cfg: cfg, prefix: prefix, now: time.Now}
}

// Check increments key's counter, creating it with the window as TTL on first use
func (l *RedisLimiter) Check(ctx context.Context, key string) (Decision, error) {
	redisKey := l.prefix + key

	var (
		incr *redis.IntCmd
		pttl *redis.DurationCmd
	)
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SetNX(ctx, redisKey, 0, l.cfg.Window)
		incr = pipe.Incr(ctx, redisKey)
		pttl = pipe.PTTL(ctx, redisKey)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to check rate limit: %w", err)
	}

	ttl := pttl.Val()
	if ttl <= 0 {
		// a key that lost its TTL would never reset
		if err := l.rdb.PExpire(ctx, redisKey, l.cfg.Window).Err(); err != nil {
			return Decision{}, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
		ttl = l.cfg.Window
	}

	return decide(l.cfg, int(incr.Val()), l.now().Add(ttl)), nil
}

var _ Limiter = (*RedisLimiter)(nil)
