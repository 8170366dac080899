package memory

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/cache"
	"github.com/joshdurbin/linkbio/internal/domain"
)

type item struct {
	cfg       *domain.DeeplinkConfig
	expiresAt time.Time
}

// Cache implements cache.ExpiringCache using in-memory storage
type Cache struct {
	data     map[domain.LinkKey]item
	ttl      time.Duration
	now      func() time.Time
	logger   zerolog.Logger
	mutex    sync.RWMutex
	stopChan chan struct{}
	running  bool
}

// Option configures a Cache
type Option func(*Cache)

// WithClock replaces time.Now, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithLogger sets the logger used by the janitor
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a new in-memory cache. A ttl <= 0 keeps entries until deleted.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{
		data:     make(map[domain.LinkKey]item),
		ttl:      ttl,
		now:      time.Now,
		logger:   zerolog.Nop(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a config by link key
func (c *Cache) Get(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	it, exists := c.data[key]
	if !exists || c.expired(it) {
		return nil, false
	}

	// copies keep callers from mutating cached rules
	return it.cfg.Clone(), true
}

// Set stores a config
func (c *Cache) Set(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	it := item{cfg: cfg.Clone()}
	if c.ttl > 0 {
		it.expiresAt = c.now().Add(c.ttl)
	}
	c.data[key] = it

	return nil
}

// Delete removes a config
func (c *Cache) Delete(ctx context.Context, key domain.LinkKey) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.data, key)
	return nil
}

// Len returns the number of stored entries, expired or not
func (c *Cache) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.data)
}

// EvictExpired removes expired entries and returns how many were removed
func (c *Cache) EvictExpired() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	evicted := 0
	for key, it := range c.data {
		if c.expired(it) {
			delete(c.data, key)
			evicted++
		}
	}
	return evicted
}

// StartJanitor starts evicting expired entries at the given interval
func (c *Cache) StartJanitor(ctx context.Context, interval time.Duration) error {
	c.mutex.Lock()
	if c.running {
		c.mutex.Unlock()
		return nil // Already running
	}
	c.running = true
	stopChan := c.stopChan
	c.mutex.Unlock()

	go c.janitor(ctx, interval, stopChan)
	return nil
}

// StopJanitor stops the eviction loop
func (c *Cache) StopJanitor() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.running {
		return nil
	}

	c.running = false
	close(c.stopChan)

	// Create new channel for potential restart
	c.stopChan = make(chan struct{})
	return nil
}

func (c *Cache) janitor(ctx context.Context, interval time.Duration, stopChan chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := c.EvictExpired(); n > 0 {
				c.logger.Debug().Int("evicted", n).Msg("evicted expired deeplink configs")
			}
		case <-stopChan:
			return
		case <-ctx.Done():
			return
		}
	}
}

func (c *Cache) expired(it item) bool {
	return !it.expiresAt.IsZero() && !c.now().Before(it.expiresAt)
}

// Close closes the cache (stops the janitor)
func (c *Cache) Close() error {
	return c.StopJanitor()
}

// Ensure Cache implements the interfaces
var _ cache.ConfigCache = (*Cache)(nil)
var _ cache.ExpiringCache = (*Cache)(nil)
