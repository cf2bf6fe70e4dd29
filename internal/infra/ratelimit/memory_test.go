package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func TestMemoryLimiter_Window(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(MemoryConfig{Now: clock.Now})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d, err := l.Allow(ctx, "login:bob", 3, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		assert.Equal(t, 2-i, d.Remaining)
	}

	d, err := l.Allow(ctx, "login:bob", 3, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.Equal(t, time.Minute, d.RetryAfter(clock.Now()))

	clock.Advance(time.Minute)
	d, err = l.Allow(ctx, "login:bob", 3, time.Minute)
	require.NoError(t, err)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_KeysAreIndependent(t *testing.T) {
	l := NewMemoryLimiter(MemoryConfig{})
	ctx := context.Background()

	d, _ := l.Allow(ctx, "a", 1, time.Minute)
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "b", 1, time.Minute)
	assert.True(t, d.Allowed)
	d, _ = l.Allow(ctx, "a", 1, time.Minute)
	assert.False(t, d.Allowed)
}

func TestMemoryLimiter_Reset(t *testing.T) {
	l := NewMemoryLimiter(MemoryConfig{})
	ctx := context.Background()

	_, _ = l.Allow(ctx, "k", 1, time.Minute)
	d, _ := l.Allow(ctx, "k", 1, time.Minute)
	require.False(t, d.Allowed)

	require.NoError(t, l.Reset(ctx, "k"))
	d, _ = l.Allow(ctx, "k", 1, time.Minute)
	assert.True(t, d.Allowed)
}

func TestMemoryLimiter_DisabledLimit(t *testing.T) {
	l := NewMemoryLimiter(MemoryConfig{})
	for i := 0; i < 10; i++ {
		d, err := l.Allow(context.Background(), "k", 0, time.Minute)
		require.NoError(t, err)
		assert.True(t, d.Allowed)
	}
}

func TestMemoryLimiter_FullTableStillThrottles(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(MemoryConfig{Now: clock.Now, MaxKeys: 3})
	ctx := context.Background()

	for _, k := range []string{"login:a", "login:b", "login:c"} {
		_, err := l.Allow(ctx, k, 2, time.Minute)
		require.NoError(t, err)
	}

	var allowed []bool
	for i := 0; i < 6; i++ {
		d, err := l.Allow(ctx, "login:victim", 2, time.Minute)
		require.NoError(t, err)
		allowed = append(allowed, d.Allowed)
	}
	assert.Equal(t, []bool{true, true, false, false, false, false}, allowed)
	assert.Len(t, l.windows, 3)
}

func TestMemoryLimiter_ThrottledKeySurvivesChurn(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(MemoryConfig{Now: clock.Now, MaxKeys: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := l.Allow(ctx, "login:victim", 2, time.Minute)
		require.NoError(t, err)
	}

	for i := 0; i < 20; i++ {
		_, err := l.Allow(ctx, fmt.Sprintf("login:spam%d", i), 2, time.Minute)
		require.NoError(t, err)
	}

	d, err := l.Allow(ctx, "login:victim", 2, time.Minute)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.LessOrEqual(t, len(l.windows), 3)
}

func TestMemoryLimiter_SweepsExpiredBeforeEvicting(t *testing.T) {
	clock := &fakeClock{now: time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)}
	l := NewMemoryLimiter(MemoryConfig{Now: clock.Now, MaxKeys: 2})
	ctx := context.Background()

	_, _ = l.Allow(ctx, "short", 5, time.Second)
	for i := 0; i < 3; i++ {
		_, _ = l.Allow(ctx, "long", 5, time.Minute)
	}

	clock.Advance(2 * time.Second)
	_, err := l.Allow(ctx, "new", 5, time.Minute)
	require.NoError(t, err)

	assert.Contains(t, l.windows, "long")
	assert.Contains(t, l.windows, "new")
	assert.NotContains(t, l.windows, "short")
}
