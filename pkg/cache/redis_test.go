package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T, opts ...RedisOption) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	c := NewRedisCacheFromClient(client, opts...)
	t.Cleanup(func() { c.Close() })
	return c, mr
}

func TestRedisCache_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	require.NoError(t, c.Ping(ctx))

	_, hit, err := c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.False(t, hit)

	require.NoError(t, c.Set(ctx, "layout:a", []byte("data"), time.Minute))
	assert.True(t, mr.Exists("netarc:layout:a"))

	data, hit, err := c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, []byte("data"), data)

	require.NoError(t, c.Delete(ctx, "layout:a"))
	_, hit, err = c.Get(ctx, "layout:a")
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestRedisCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t, WithDefaultTTL(time.Second), WithPrefix("t:"))

	require.NoError(t, c.Set(ctx, "k", []byte("v"), 0))
	assert.Equal(t, time.Second, mr.TTL("t:k"))

	require.NoError(t, c.Set(ctx, "k2", []byte("v"), time.Hour))
	assert.Equal(t, time.Hour, mr.TTL("t:k2"))

	mr.FastForward(2 * time.Second)
	_, hit, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, hit, "entry should have expired")

	_, hit, err = c.Get(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, hit)
}

func TestRedisCache_Clear(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestRedis(t)

	for i := 0; i < 250; i++ {
		require.NoError(t, c.Set(ctx, fmt.Sprintf("artifact:%d", i), []byte("x"), 0))
	}
	require.NoError(t, mr.Set("other:key", "keep"))

	require.NoError(t, c.Clear(ctx))
	assert.Equal(t, []string{"other:key"}, mr.Keys())
}

func TestRedisCache_BackendDown(t *testing.T) {
	old := retryDelay
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = old })

	ctx := context.Background()
	c, mr := newTestRedis(t)
	mr.Close()

	_, _, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrBackend)
	assert.ErrorIs(t, c.Set(ctx, "k", []byte("v"), 0), ErrBackend)
}

func TestRedisCache_Instrumented(t *testing.T) {
	ctx := context.Background()
	rc, _ := newTestRedis(t)
	c := Instrument(rc)

	require.NoError(t, c.Set(ctx, "layout:z", []byte("1"), 0))
	require.NoError(t, c.(Clearer).Clear(ctx))
	_, hit, err := c.Get(ctx, "layout:z")
	require.NoError(t, err)
	assert.False(t, hit)
}
