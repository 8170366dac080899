package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPrefix = "linkbio:test:ratelimit:"

func newTestRedisLimiter(t *testing.T, cfg Config) (*RedisLimiter, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisLimiter(rdb, cfg, testPrefix), mr
}

func TestRedisLimiter_AllowsUpToLimit(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Requests: 2, Window: time.Minute})
	ctx := context.Background()

	d, err := l.Check(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 2, d.Limit)
	assert.Equal(t, 1, d.Remaining)
	assert.WithinDuration(t, time.Now().Add(time.Minute), d.ResetAt, 2*time.Second)

	d, err = l.Check(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	d, err = l.Check(ctx, "client-1")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)

	// the counter is created once with the window as its TTL
	assert.Equal(t, time.Minute, mr.TTL(testPrefix+"client-1"))
	count, err := mr.Get(testPrefix + "client-1")
	require.NoError(t, err)
	assert.Equal(t, "3", count)
}

func TestRedisLimiter_KeysAreIndependent(t *testing.T) {
	l, _ := newTestRedisLimiter(t, Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	d, _ := l.Check(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, "a")
	assert.False(t, d.Allowed)

	d, _ = l.Check(ctx, "b")
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_WindowResets(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	d, _ := l.Check(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, "a")
	assert.False(t, d.Allowed)

	mr.FastForward(time.Minute)

	d, err := l.Check(ctx, "a")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestRedisLimiter_RepairsLostTTL(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Requests: 2, Window: 30 * time.Second})

	// a counter left without an expiry would block the client forever
	require.NoError(t, mr.Set(testPrefix+"stuck", "5"))
	require.Equal(t, time.Duration(0), mr.TTL(testPrefix+"stuck"))

	d, err := l.Check(context.Background(), "stuck")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), d.ResetAt, 2*time.Second)
	assert.Equal(t, 30*time.Second, mr.TTL(testPrefix+"stuck"))

	mr.FastForward(30 * time.Second)

	d, err = l.Check(context.Background(), "stuck")
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestRedisLimiter_BackendDown(t *testing.T) {
	l, mr := newTestRedisLimiter(t, Config{Requests: 2, Window: time.Minute})
	mr.Close()

	_, err := l.Check(context.Background(), "client-1")
	assert.Error(t, err)
}
