package aggregator

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *RedisKVStore) {
	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})
	t.Cleanup(func() { _ = redisClient.Close() })
	return mr, NewRedisKVStore(redisClient)
}

func TestRedisKVStore_SetGetDelete(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k1", "v1", time.Minute))
	require.NoError(t, kv.Set(ctx, "k2", "v2", 0))

	val, err := kv.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)
	assert.Equal(t, time.Minute, mr.TTL("k1"))

	require.NoError(t, kv.Delete(ctx, "k1", "k2"))
	_, err = kv.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.False(t, mr.Exists("k2"))

	assert.NoError(t, kv.Delete(ctx))
}

func TestRedisKVStore_Expiry(t *testing.T) {
	mr, kv := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v", time.Second))
	mr.FastForward(2 * time.Second)

	_, err := kv.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryKVStore(t *testing.T) {
	kv := NewMemoryKVStore()
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, kv.Set(ctx, "k", "v", 0))
	val, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", val)

	require.NoError(t, kv.Set(ctx, "expired", "v", time.Nanosecond))
	time.Sleep(time.Millisecond)
	_, err = kv.Get(ctx, "expired")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, kv.Delete(ctx, "k"))
	assert.Empty(t, kv.data)
}
