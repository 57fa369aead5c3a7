package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogProvider loads the raw food table from its source
type CatalogProvider interface {
	Load(ctx context.Context) ([]FoodRecord, error)
}

// FoodCatalog is the read-only, indexed view of the food table used by the services.
// Implementations must be safe for concurrent use.
type FoodCatalog interface {
	Foods() []FoodRecord
	Names() []string
	FindByName(name string) (*FoodRecord, error)
}

// ObjectDetector maps an image to food labels with confidence scores
type ObjectDetector interface {
	Detect(ctx context.Context, image []byte, filename string) ([]Detection, error)
}
