package cache

import (
	"context"
	"time"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// ConfigCache defines the interface for caching deeplink configs by owning link
type ConfigCache interface {
	// Get retrieves a config by link key
	Get(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, bool)

	// Set stores a config
	Set(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error

	// Delete removes a config
	Delete(ctx context.Context, key domain.LinkKey) error

	// Close releases the cache (if applicable)
	Close() error
}

// ExpiringCache extends ConfigCache with periodic eviction of expired entries
type ExpiringCache interface {
	ConfigCache

	// StartJanitor starts evicting expired entries at the given interval
	StartJanitor(ctx context.Context, interval time.Duration) error

	// StopJanitor stops the eviction loop
	StopJanitor() error
}
