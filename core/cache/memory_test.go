package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCacheJSONRoundTrip(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	var ids []string
	found, err := GetJSON(ctx, c, "removedEventIds", &ids)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, SetJSON(ctx, c, "removedEventIds", []string{"a1", "b2"}))

	found, err = GetJSON(ctx, c, "removedEventIds", &ids)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []string{"a1", "b2"}, ids)
}

func TestMemoryCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()
	now := time.Date(2026, 1, 25, 9, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	got, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCacheDelete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache()

	require.NoError(t, c.Set(ctx, "k", "v", 0))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
