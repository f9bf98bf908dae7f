package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(0)

	_, ok, err := c.Get(ctx, "demo-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "demo-1", "<html></html>"))
	doc, ok, err := c.Get(ctx, "demo-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<html></html>", doc)

	require.NoError(t, c.Delete(ctx, "demo-1", "missing"))
	_, ok, _ = c.Get(ctx, "demo-1")
	assert.False(t, ok)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v"))

	now = now.Add(30 * time.Second)
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemoryCache_ExpiryKeepsConcurrentSet(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "old"))
	now = now.Add(2 * time.Minute)

	// a Set lands after Get has seen the stale entry but before it evicts
	raced := false
	c.now = func() time.Time {
		if !raced {
			raced = true
			require.NoError(t, c.Set(ctx, "k", "fresh"))
		}
		return now
	}

	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	doc, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "fresh", doc)
}
