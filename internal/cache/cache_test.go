package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopCacheNeverHits(t *testing.T) {
	var c Cache = NewNoop()
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	val, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
	assert.NoError(t, c.Delete(ctx, "k"))
}

func TestNewRedisFromURL(t *testing.T) {
	c, err := NewRedisFromURL("redis://:pw@localhost:6379/2", "capella:")
	require.NoError(t, err)
	assert.NoError(t, c.Close())

	_, err = NewRedisFromURL("http://not-redis", "capella:")
	assert.Error(t, err)
}

var _ Cache = (*RedisCache)(nil)
