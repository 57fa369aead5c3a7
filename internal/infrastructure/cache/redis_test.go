package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient points at a port nothing listens on
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisCache_InvalidURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid redis url")
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "redis://127.0.0.1:1/0")
	assert.True(t, errors.Is(err, domain.ErrCacheUnavailable), "got %v", err)
}

func TestRedisCache_ErrorsMapToUnavailable(t *testing.T) {
	c := newRedisCache(unreachableClient(), "test:")
	defer c.Close()
	ctx := context.Background()

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.Set(ctx, "k", []byte("v"), time.Minute)
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	err = c.Delete(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)

	_, err = c.Exists(ctx, "k")
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

func TestNew(t *testing.T) {
	store, err := New(context.Background(), config.CacheConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, store)
	require.NoError(t, store.Close())

	_, err = New(context.Background(), config.CacheConfig{Type: "memcached"})
	assert.Error(t, err)
}
