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

func newTestRedis(t *testing.T) *RedisCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisCache(client)
}

func TestRedisCache_SetGet(t *testing.T) {
	ctx := context.Background()
	rc := newTestRedis(t)

	require.NoError(t, rc.Set(ctx, "k", []byte("v"), time.Minute))

	got, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), got)
}

func TestRedisCache_MissReturnsNil(t *testing.T) {
	rc := newTestRedis(t)
	got, err := rc.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	rc := newTestRedis(t)

	require.NoError(t, rc.Set(ctx, "k", []byte("v"), time.Minute))
	require.NoError(t, rc.Delete(ctx, "k"))

	got, err := rc.Get(ctx, "k")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedisCache_Ping(t *testing.T) {
	rc := newTestRedis(t)
	assert.NoError(t, rc.Ping(context.Background()))
}
