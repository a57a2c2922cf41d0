package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*RedisTokenCache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisTokenCache(client), mr
}

func TestGet_Miss(t *testing.T) {
	cache, _ := setupTestRedis(t)

	_, err := cache.Get(context.Background(), "paypalAccessToken")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestSetThenGet(t *testing.T) {
	cache, _ := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "paypalAccessToken", "A21.token", 90*time.Second))

	value, err := cache.Get(ctx, "paypalAccessToken")
	require.NoError(t, err)
	assert.Equal(t, "A21.token", value)
}

func TestGet_AfterExpiry(t *testing.T) {
	cache, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "paypalAccessToken", "A21.token", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := cache.Get(ctx, "paypalAccessToken")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
