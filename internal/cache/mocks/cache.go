package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/joshdurbin/linkbio/internal/cache"
	"github.com/joshdurbin/linkbio/internal/domain"
)

// ConfigCache is a mock implementation of cache.ConfigCache
type ConfigCache struct {
	mock.Mock
}

// Get retrieves a config by link key
func (m *ConfigCache) Get(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, bool) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.DeeplinkConfig), args.Bool(1)
}

// Set stores a config
func (m *ConfigCache) Set(ctx context.Context, key domain.LinkKey, cfg *domain.DeeplinkConfig) error {
	args := m.Called(ctx, key, cfg)
	return args.Error(0)
}

// Delete removes a config
func (m *ConfigCache) Delete(ctx context.Context, key domain.LinkKey) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Close closes the cache (if applicable)
func (m *ConfigCache) Close() error {
	args := m.Called()
	return args.Error(0)
}

// ExpiringCache is a mock implementation of cache.ExpiringCache
type ExpiringCache struct {
	ConfigCache
}

// StartJanitor starts evicting expired entries
func (m *ExpiringCache) StartJanitor(ctx context.Context, interval time.Duration) error {
	args := m.Called(ctx, interval)
	return args.Error(0)
}

// StopJanitor stops the eviction loop
func (m *ExpiringCache) StopJanitor() error {
	args := m.Called()
	return args.Error(0)
}

var (
	_ cache.ConfigCache   = (*ConfigCache)(nil)
	_ cache.ExpiringCache = (*ExpiringCache)(nil)
)
