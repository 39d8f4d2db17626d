package cache

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := NewRedisClient(context.Background(), addr, os.Getenv("TEST_REDIS_PASSWORD"), 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	prefix := fmt.Sprintf("bizhub-test-%d:", time.Now().UnixNano())
	return NewRedisStore(client, prefix)
}

func TestRedisStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	require.NoError(t, store.Set(ctx, "listing", listing{Name: "Thika Greens", Views: 7}, time.Minute))

	var got listing
	found, err := store.Get(ctx, "listing", &got)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "Thika Greens", got.Name)

	require.NoError(t, store.Delete(ctx, "listing"))
	found, err = store.Get(ctx, "listing", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStore_InvalidatePattern(t *testing.T) {
	ctx := context.Background()
	store := newTestRedisStore(t)

	require.NoError(t, store.Set(ctx, "businesses_1_10___", 1, time.Minute))
	require.NoError(t, store.Set(ctx, "businesses_2_10___", 2, time.Minute))
	require.NoError(t, store.Set(ctx, "dashboard_analytics", 3, time.Minute))

	require.NoError(t, store.InvalidatePattern(ctx, "businesses"))

	var v int
	found, err := store.Get(ctx, "businesses_1_10___", &v)
	require.NoError(t, err)
	assert.False(t, found)

	found, err = store.Get(ctx, "dashboard_analytics", &v)
	require.NoError(t, err)
	assert.True(t, found)
}
