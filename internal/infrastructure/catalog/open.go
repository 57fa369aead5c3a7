package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/mealplanner/backend/config"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// NewProvider selects the provider for the configured source
func NewProvider(cfg config.CatalogConfig) (domain.CatalogProvider, error) {
	switch cfg.Source {
	case config.CatalogSourceFile, "":
		return NewFileProvider(cfg.Path), nil
	case config.CatalogSourceSQLite:
		return NewSQLiteProvider(cfg.Path, cfg.Table), nil
	case config.CatalogSourcePostgres:
		return NewPostgresProvider(cfg.DSN, cfg.Table), nil
	default:
		return nil, fmt.Errorf("unknown catalog source %q", cfg.Source)
	}
}

// Open loads the configured catalog. Any failure is reported as
// domain.ErrCatalogUnavailable wrapping the cause.
func Open(ctx context.Context, cfg config.CatalogConfig, logger *zap.Logger) (*Catalog, error) {
	logger = logging.OrNop(logger)

	provider, err := NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCatalogUnavailable, err)
	}

	start := time.Now()
	foods, err := provider.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrCatalogUnavailable, err)
	}

	c := New(foods)
	logger.Info("food catalog loaded",
		zap.String("source", cfg.Source),
		zap.Int("foods", c.Len()),
		zap.Duration("took", time.Since(start)),
	)
	if c.Len() == 0 {
		logger.Warn("food catalog is empty; plans will contain empty meals")
	}
	return c, nil
}
