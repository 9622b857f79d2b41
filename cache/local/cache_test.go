package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) *LocalCache {
	c, err := NewCache(Config{GCInterval: time.Minute})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGetSet(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "lookup:colors", `[{"color_id":1,"color":"Red"}]`, 0)
	require.NoError(t, err)

	v, err := c.Get(ctx, "lookup:colors")
	require.NoError(t, err)
	assert.Equal(t, `[{"color_id":1,"color":"Red"}]`, v)
}

func TestGetMissing(t *testing.T) {
	c := newTestCache(t)
	_, err := c.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTTLExpiry(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()

	err := c.Set(ctx, "ttl_key", "val", 10*time.Millisecond)
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	_, err = c.Get(ctx, "ttl_key")
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := c.Exists(ctx, "ttl_key")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestDel(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	_ = c.Set(ctx, "a", "1", 0)
	_ = c.Set(ctx, "b", "2", 0)
	require.NoError(t, c.Del(ctx, "a", "b", "never-set"))

	_, err := c.Get(ctx, "a")
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = c.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestExists(t *testing.T) {
	c := newTestCache(t)
	ctx := context.Background()
	_ = c.Set(ctx, "k", "v", time.Minute)
	exists, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCloseTwice(t *testing.T) {
	c, err := NewCache(Config{})
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.NoError(t, c.Close())
}
