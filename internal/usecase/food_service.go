package usecase

import (
	"context"
	"strings"

	"github.com/mealplanner/backend/internal/domain"
)

// FoodService answers name listings and detail lookups against the catalog
type FoodService struct {
	catalog domain.FoodCatalog
}

// NewFoodService creates a new food service
func NewFoodService(catalog domain.FoodCatalog) *FoodService {
	return &FoodService{catalog: catalog}
}

// ListFoodNames returns every catalog name in catalog order
func (s *FoodService) ListFoodNames(ctx context.Context) ([]string, error) {
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.Names(), nil
}

// FindFood looks up a record by name, ignoring case
func (s *FoodService) FindFood(ctx context.Context, name string) (*domain.FoodRecord, error) {
	if strings.TrimSpace(name) == "" {
		return nil, domain.ErrInvalidRequest
	}
	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.catalog.FindByName(name)
}
