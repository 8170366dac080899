package cache

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/joshdurbin/linkbio/internal/domain"
)

// ConfigSource is the backing store a ConfigStore reads through to
type ConfigSource interface {
	GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error)
}

// ConfigStore reads deeplink configs through a ConfigCache.
// Misses are not cached; cache write failures are logged and ignored.
type ConfigStore struct {
	source ConfigSource
	cache  ConfigCache
	logger zerolog.Logger
}

// NewConfigStore wraps source with c
func NewConfigStore(source ConfigSource, c ConfigCache, logger zerolog.Logger) *ConfigStore {
	return &ConfigStore{source: source, cache: c, logger: logger}
}

// GetConfig returns the cached config or loads and caches it
func (s *ConfigStore) GetConfig(ctx context.Context, key domain.LinkKey) (*domain.DeeplinkConfig, error) {
	if cfg, ok := s.cache.Get(ctx, key); ok {
		return cfg, nil
	}

	cfg, err := s.source.GetConfig(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, cfg); err != nil {
		s.logger.Warn().Err(err).Stringer("link", key).Msg("failed to cache deeplink config")
	}
	return cfg, nil
}

// Invalidate drops the cached config for key
func (s *ConfigStore) Invalidate(ctx context.Context, key domain.LinkKey) error {
	return s.cache.Delete(ctx, key)
}
