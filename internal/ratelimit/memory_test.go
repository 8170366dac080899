package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_AllowsUpToLimit(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 3, Window: time.Minute})
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Check(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 3, d.Limit)
		assert.Equal(t, 3-i, d.Remaining)
		assert.WithinDuration(t, time.Now().Add(time.Minute), d.ResetAt, 2*time.Second)
	}

	d, err := l.Check(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 1, Window: time.Minute})
	ctx := context.Background()

	d, _ := l.Check(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, "a")
	assert.False(t, d.Allowed)

	d, _ = l.Check(ctx, "b")
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_WindowResets(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 1, Window: 100 * time.Millisecond})
	ctx := context.Background()

	d, _ := l.Check(ctx, "a")
	assert.True(t, d.Allowed)
	d, _ = l.Check(ctx, "a")
	assert.False(t, d.Allowed)

	assert.Eventually(t, func() bool {
		d, err := l.Check(ctx, "a")
		return err == nil && d.Allowed
	}, 2*time.Second, 50*time.Millisecond)
}

func TestMemoryLimiter_Concurrent(t *testing.T) {
	l := NewMemoryLimiter(Config{Requests: 50, Window: time.Minute})
	ctx := context.Background()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		allowed int
	)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Check(ctx, "shared")
			assert.NoError(t, err)
			if d.Allowed {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, allowed)
}

func TestDecision_RetryAfter(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		resetAt time.Time
		want    time.Duration
	}{
		{"exact seconds", now.Add(10 * time.Second), 10 * time.Second},
		{"fractional", now.Add(1500 * time.Millisecond), 2 * time.Second},
		{"already reset", now.Add(-time.Second), time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decision{ResetAt: tt.resetAt}
			assert.Equal(t, tt.want, d.RetryAfter(now))
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Requests: 0, Window: time.Second}.Validate())
	assert.Error(t, Config{Requests: 1, Window: 0}.Validate())
}
