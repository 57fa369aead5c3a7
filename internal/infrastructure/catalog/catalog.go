package catalog

import (
	"github.com/mealplanner/backend/internal/domain"
)

// Catalog is an immutable, indexed food table. It is built once at startup and
// shared by every request; all methods are read-only.
type Catalog struct {
	foods []domain.FoodRecord
	names []string
	index map[string]int
}

// New builds a catalog from records. When two records normalize to the same
// name, lookups return the first; both stay in Foods.
func New(records []domain.FoodRecord) *Catalog {
	c := &Catalog{
		foods: make([]domain.FoodRecord, len(records)),
		names: make([]string, 0, len(records)),
		index: make(map[string]int, len(records)),
	}
	copy(c.foods, records)

	for i, food := range c.foods {
		c.names = append(c.names, food.Name)
		key := domain.NormalizeName(food.Name)
		if _, exists := c.index[key]; !exists {
			c.index[key] = i
		}
	}
	return c
}

// Foods returns the records in load order. Callers must not modify the slice.
func (c *Catalog) Foods() []domain.FoodRecord {
	return c.foods
}

// Names returns the record names in load order
func (c *Catalog) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// FindByName returns a copy of the record matching name case-insensitively
func (c *Catalog) FindByName(name string) (*domain.FoodRecord, error) {
	i, ok := c.index[domain.NormalizeName(name)]
	if !ok {
		return nil, domain.ErrFoodNotFound
	}
	food := c.foods[i]
	return &food, nil
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.foods)
}

var _ domain.FoodCatalog = (*Catalog)(nil)
