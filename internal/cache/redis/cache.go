package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/cache"
	"github.com/joshdurbin/linkbio/internal/domain"
)

const keyPrefix = "linkbio:deeplink:"

// Connect opens a client and verifies it with a ping
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return rdb, nil
}

// Cache implements cache.ConfigCache on a shared redis instance, so every
// server replica sees the same invalidations
type Cache struct {
	rdb    *goredis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// New wraps a connected client. Entries expire after ttl; ttl <= 0 keeps them.
func New(rdb *goredis.Client, ttl time.Duration, logger zerolog.Logger) *Cache {
	return &Cache{rdb: rdb, ttl: ttl, logger: logger}
}

// Get retrieves a config by link key. Redis errors count as a miss.
func (c *Cache) Get(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.logger.Warn().Err(err).Stringer("link", key).Msg("deeplink config cache read failed")
		}
		return nil, false
	}

	var cfg domain.DeeplinkConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		c.logger.Warn().Err(err).Stringer("link", key).Msg("discarding undecodable cached deeplink config")
		return nil, false
	}
	return &cfg, true
}

// Set stores a config
func (c *Cache) Set(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error {
	raw, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode deeplink config: %w", err)
	}

	ttl := c.ttl
	if ttl < 0 {
		ttl = 0
	}
	if err := c.rdb.Set(ctx, cacheKey(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache deeplink config: %w", err)
	}
	return nil
}

// Delete removes a config
func (c *Cache) Delete(ctx context.Context, key domain.LinkKey) error {
	if err := c.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to evict deeplink config: %w", err)
	}
	return nil
}

// Close is a no-op; the client is shared and closed by its owner
func (c *Cache) Close() error {
	return nil
}

func cacheKey(key domain.LinkKey) string {
	return fmt.Sprintf("%s%s:%d", keyPrefix, key.Namespace, key.ID)
}

var _ cache.ConfigCache = (*Cache)(nil)
