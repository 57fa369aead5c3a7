package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mealplanner/backend/internal/domain"
)

// PostgresProvider loads the catalog from a Postgres table
type PostgresProvider struct {
	dsn   string
	table string
}

// NewPostgresProvider creates a provider reading table from the database at dsn
func NewPostgresProvider(dsn, table string) *PostgresProvider {
	return &PostgresProvider{dsn: dsn, table: table}
}

// foodRow mirrors the catalog columns; pointers absorb NULLs
type foodRow struct {
	Name       *string  `db:"food_name"`
	EnergyKcal *float64 `db:"energy_kcal"`
	ProteinG   *float64 `db:"protein_g"`
	CarbG      *float64 `db:"carb_g"`
	FatG       *float64 `db:"fat_g"`
}

// Load reads every row of the table. The pool only lives for the load.
func (p *PostgresProvider) Load(ctx context.Context) ([]domain.FoodRecord, error) {
	config, err := pgxpool.ParseConfig(p.dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %w", err)
	}
	// Works behind transaction poolers such as pgbouncer.
	config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}
	defer pool.Close()

	rows, err := pool.Query(ctx, selectColumnsQuery(quotePostgresIdent(p.table)))
	if err != nil {
		return nil, fmt.Errorf("failed to query %s: %w", p.table, err)
	}

	results, err := pgx.CollectRows(rows, pgx.RowToStructByName[foodRow])
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", p.table, err)
	}

	foods := make([]domain.FoodRecord, 0, len(results))
	for i, r := range results {
		food, ok, err := r.toRecord()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
		if ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

func (r foodRow) toRecord() (domain.FoodRecord, bool, error) {
	deref := func(v *float64) float64 {
		if v == nil {
			return 0
		}
		return *v
	}

	if r.Name == nil || strings.TrimSpace(*r.Name) == "" {
		return domain.FoodRecord{}, false, nil
	}
	food := domain.FoodRecord{
		Name:       strings.TrimSpace(*r.Name),
		EnergyKcal: deref(r.EnergyKcal),
		ProteinG:   deref(r.ProteinG),
		CarbG:      deref(r.CarbG),
		FatG:       deref(r.FatG),
	}
	if err := checkFinite(food); err != nil {
		return domain.FoodRecord{}, false, fmt.Errorf("%s: %w", food.Name, err)
	}
	return food, true, nil
}

// quotePostgresIdent quotes a possibly schema-qualified table name
func quotePostgresIdent(name string) string {
	return pgx.Identifier(strings.Split(name, ".")).Sanitize()
}
