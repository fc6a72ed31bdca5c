package ratelimit_test

import (
	"testing"
	"time"

	"catalog-sync/core/clock"
	"catalog-sync/core/ratelimit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(t *testing.T, c clock.Clock) *ratelimit.Limiter {
	t.Helper()
	l, err := ratelimit.New(ratelimit.Config{
		WindowSeconds:    300,
		DefaultThreshold: 3,
		Thresholds:       "sync.trigger:10",
	}, c)
	require.NoError(t, err)
	return l
}

func TestLimiter_Boundary(t *testing.T) {
	c := clock.NewFake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	l := newLimiter(t, c)

	for i := 1; i <= 10; i++ {
		assert.True(t, l.Allow("admin", "sync.trigger"), "call %d should pass", i)
	}
	assert.False(t, l.Allow("admin", "sync.trigger"), "11th call must be refused")

	c.Advance(299 * time.Second)
	assert.False(t, l.Allow("admin", "sync.trigger"))
	assert.Equal(t, time.Second, l.RetryAfter("admin", "sync.trigger"))

	c.Advance(2 * time.Second)
	assert.True(t, l.Allow("admin", "sync.trigger"))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	c := clock.NewFake(time.Now())
	l := newLimiter(t, c)

	for i := 0; i < 10; i++ {
		l.Allow("alice", "sync.trigger")
	}
	assert.False(t, l.Allow("alice", "sync.trigger"))
	assert.True(t, l.Allow("bob", "sync.trigger"))

	// Unlisted action uses the default threshold of 3.
	assert.True(t, l.Allow("alice", "status"))
	assert.True(t, l.Allow("alice", "status"))
	assert.True(t, l.Allow("alice", "status"))
	assert.False(t, l.Allow("alice", "status"))
}

func TestLimiter_RetryAfterWithoutWindow(t *testing.T) {
	l := newLimiter(t, clock.NewFake(time.Now()))
	assert.Equal(t, time.Duration(0), l.RetryAfter("nobody", "sync.trigger"))
}

func TestKey(t *testing.T) {
	assert.Equal(t, ratelimit.Key("a", "b"), ratelimit.Key("a", "b"))
	assert.NotEqual(t, ratelimit.Key("ab", ""), ratelimit.Key("a", "b"))
	assert.Len(t, ratelimit.Key("a", "b"), 64)
}

func TestParseThresholds(t *testing.T) {
	t.Run("Valid table", func(t *testing.T) {
		table, err := ratelimit.ParseThresholds(" sync.trigger:10, products.list:120 ,")
		require.NoError(t, err)
		assert.Equal(t, map[string]int{"sync.trigger": 10, "products.list": 120}, table)
	})

	t.Run("Empty", func(t *testing.T) {
		table, err := ratelimit.ParseThresholds("")
		require.NoError(t, err)
		assert.Empty(t, table)
	})

	t.Run("Invalid entries", func(t *testing.T) {
		for _, raw := range []string{"sync.trigger", "sync.trigger:", ":5", "sync.trigger:abc", "x:-1"} {
			_, err := ratelimit.ParseThresholds(raw)
			assert.Error(t, err, raw)
		}
	})

	t.Run("Invalid table is rejected", func(t *testing.T) {
		l, err := ratelimit.New(ratelimit.Config{WindowSeconds: 60, DefaultThreshold: 1, Thresholds: "sync.trigger:1O"}, clock.NewFake(time.Now()))
		assert.Error(t, err)
		assert.Nil(t, l)
	})
}

func TestLimiter_ZeroThresholdBlocks(t *testing.T) {
	l, err := ratelimit.New(ratelimit.Config{WindowSeconds: 60, DefaultThreshold: 0}, clock.NewFake(time.Now()))
	require.NoError(t, err)
	assert.False(t, l.Allow("admin", "sync.trigger"))
}

func TestLimiter_NoRefillInsideWindow(t *testing.T) {
	c := clock.NewFake(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	l, err := ratelimit.New(ratelimit.Config{WindowSeconds: 300, DefaultThreshold: 2}, c)
	require.NoError(t, err)

	assert.True(t, l.Allow("admin", "status"))
	assert.True(t, l.Allow("admin", "status"))

	// A refilling bucket would have earned tokens back by now.
	c.Advance(250 * time.Second)
	assert.False(t, l.Allow("admin", "status"))

	c.Advance(50 * time.Second)
	assert.True(t, l.Allow("admin", "status"))
}
