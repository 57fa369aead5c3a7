package cache

import (
	"context"
	"fmt"
	"io"

	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/domain"
)

// Store is a cache that holds resources until closed
type Store interface {
	domain.CacheRepository
	io.Closer
}

// New creates the cache selected by cfg.Type
func New(ctx context.Context, cfg config.CacheConfig) (Store, error) {
	switch cfg.Type {
	case "memory", "":
		return NewMemoryCache(), nil
	case "redis":
		redisCache, err := NewRedisCache(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		return redisCache, nil
	default:
		return nil, fmt.Errorf("unknown cache type %q", cfg.Type)
	}
}
