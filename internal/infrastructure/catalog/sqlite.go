package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/mealplanner/backend/internal/domain"
	_ "modernc.org/sqlite" // Pure Go sqlite driver
)

// SQLiteProvider loads the catalog from a table in a SQLite database file
type SQLiteProvider struct {
	path  string
	table string
}

// NewSQLiteProvider creates a provider reading table from the database at path
func NewSQLiteProvider(path, table string) *SQLiteProvider {
	return &SQLiteProvider{path: path, table: table}
}

// Load reads every row of the table
func (p *SQLiteProvider) Load(ctx context.Context) ([]domain.FoodRecord, error) {
	db, err := sql.Open("sqlite", p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	rows, err := db.QueryContext(ctx, selectColumnsQuery(quoteSQLiteIdent(p.table)))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.table, err)
	}
	defer rows.Close()

	var foods []domain.FoodRecord
	for line := 1; rows.Next(); line++ {
		var (
			name                         sql.NullString
			energy, protein, carbs, fats sql.NullFloat64
		)
		if err := rows.Scan(&name, &energy, &protein, &carbs, &fats); err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		food := domain.FoodRecord{
			Name:       strings.TrimSpace(name.String),
			EnergyKcal: energy.Float64,
			ProteinG:   protein.Float64,
			CarbG:      carbs.Float64,
			FatG:       fats.Float64,
		}
		if food.Name == "" {
			continue
		}
		if err := checkFinite(food); err != nil {
			return nil, fmt.Errorf("row %d (%s): %w", line, food.Name, err)
		}
		foods = append(foods, food)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.table, err)
	}
	return foods, nil
}

func selectColumnsQuery(table string) string {
	return fmt.Sprintf("SELECT %s FROM %s", strings.Join(requiredColumns, ", "), table)
}

func quoteSQLiteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
