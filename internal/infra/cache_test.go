package infra

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRedisCache_NilClientDisablesCaching(t *testing.T) {
	ctx := context.Background()
	c := NewRedisCache(nil)

	assert.NoError(t, c.Set(ctx, "k", []byte("v"), time.Minute))
	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.NoError(t, c.Del(ctx, "k"))

	var nilCache *RedisCache
	_, err = nilCache.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
