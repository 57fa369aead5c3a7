package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/mealplanner/backend/internal/domain"
)

// Column names shared by every catalog source
const (
	ColumnName    = "food_name"
	ColumnEnergy  = "energy_kcal"
	ColumnProtein = "protein_g"
	ColumnCarb    = "carb_g"
	ColumnFat     = "fat_g"
)

var requiredColumns = []string{ColumnName, ColumnEnergy, ColumnProtein, ColumnCarb, ColumnFat}

// columnIndex locates the required columns in a header row. Extra columns are ignored.
func columnIndex(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, col := range header {
		positions[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(col, "\ufeff")))] = i
	}

	index := make(map[string]int, len(requiredColumns))
	for _, col := range requiredColumns {
		i, ok := positions[col]
		if !ok {
			return nil, fmt.Errorf("missing column %q", col)
		}
		index[col] = i
	}
	return index, nil
}

// mapRow converts one data row into a record. ok is false for rows with a blank name.
func mapRow(row []string, index map[string]int) (food domain.FoodRecord, ok bool, err error) {
	cell := func(col string) string {
		i := index[col]
		if i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	food.Name = cell(ColumnName)
	if food.Name == "" {
		return food, false, nil
	}

	fields := []struct {
		col string
		dst *float64
	}{
		{ColumnEnergy, &food.EnergyKcal},
		{ColumnProtein, &food.ProteinG},
		{ColumnCarb, &food.CarbG},
		{ColumnFat, &food.FatG},
	}
	for _, f := range fields {
		if *f.dst, err = parseNutrient(cell(f.col)); err != nil {
			return food, false, fmt.Errorf("column %s: %w", f.col, err)
		}
	}
	return food, true, nil
}

// parseNutrient reads a per-100 g value. Blank cells count as zero; NaN and
// infinities are rejected.
func parseNutrient(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := domain.Numeric(s).Float64()
	if err != nil {
		return 0, fmt.Errorf("%q is not a finite number", s)
	}
	return v, nil
}

// checkFinite rejects records read from typed columns that hold NaN or infinity
func checkFinite(food domain.FoodRecord) error {
	values := []struct {
		col string
		v   float64
	}{
		{ColumnEnergy, food.EnergyKcal},
		{ColumnProtein, food.ProteinG},
		{ColumnCarb, food.CarbG},
		{ColumnFat, food.FatG},
	}
	for _, f := range values {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("column %s: %v is not a finite number", f.col, f.v)
		}
	}
	return nil
}
