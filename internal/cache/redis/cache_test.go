package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshdurbin/linkbio/internal/domain"
)

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "linkbio:deeplink:short_link:42",
		cacheKey(domain.LinkKey{Namespace: domain.NamespaceShortLink, ID: 42}))
	assert.Equal(t, "linkbio:deeplink:profile_link:7",
		cacheKey(domain.LinkKey{Namespace: domain.NamespaceProfileLink, ID: 7}))
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, "127.0.0.1:1", "", 0)
	assert.Error(t, err)
}

func newTestCache(t *testing.T, ttl time.Duration) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { rdb.Close() })

	return New(rdb, ttl, zerolog.Nop()), mr
}

func TestCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	key := domain.LinkKey{Namespace: domain.NamespaceShortLink, ID: 42}
	cfg := &domain.DeeplinkConfig{
		OriginalURL: "https://example.com",
		AndroidURL:  "https://play.google.com/store/apps/details?id=x",
		UserAgentRules: domain.UserAgentRules{
			{Pattern: "FBAN", URL: "https://example.com/fb"},
			{Pattern: "Instagram", URL: "https://example.com/ig"},
		},
	}

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, key, cfg))
	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, cfg, got)
	assert.Equal(t, time.Minute, mr.TTL(cacheKey(key)))

	require.NoError(t, c.Delete(ctx, key))
	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
	assert.False(t, mr.Exists(cacheKey(key)))
}

func TestCache_Expires(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := domain.LinkKey{Namespace: domain.NamespaceProfileLink, ID: 7}

	require.NoError(t, c.Set(ctx, key, &domain.DeeplinkConfig{OriginalURL: "https://example.com"}))
	_, ok := c.Get(ctx, key)
	require.True(t, ok)

	mr.FastForward(time.Minute + time.Second)

	_, ok = c.Get(ctx, key)
	assert.False(t, ok)
}

func TestCache_NoTTL(t *testing.T) {
	c, mr := newTestCache(t, 0)
	ctx := context.Background()
	key := domain.LinkKey{Namespace: domain.NamespaceShortLink, ID: 1}

	require.NoError(t, c.Set(ctx, key, &domain.DeeplinkConfig{OriginalURL: "https://example.com"}))
	assert.Equal(t, time.Duration(0), mr.TTL(cacheKey(key)))
}

func TestCache_UndecodableValueIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	key := domain.LinkKey{Namespace: domain.NamespaceShortLink, ID: 9}

	require.NoError(t, mr.Set(cacheKey(key), "{not json"))

	got, ok := c.Get(context.Background(), key)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestCache_BackendDown(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()
	key := domain.LinkKey{Namespace: domain.NamespaceShortLink, ID: 3}

	mr.Close()

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)
	assert.Error(t, c.Set(ctx, key, &domain.DeeplinkConfig{OriginalURL: "https://example.com"}))
	assert.Error(t, c.Delete(ctx, key))
	assert.NoError(t, c.Close())
}
