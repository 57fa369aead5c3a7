package catalog

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mealplanner/backend/internal/domain"
)

// FileProvider loads the catalog from a CSV or JSON file chosen by extension
type FileProvider struct {
	path string
}

// NewFileProvider creates a provider for a .csv or .json file
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

// Load reads every record from the file
func (p *FileProvider) Load(ctx context.Context) ([]domain.FoodRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(p.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()

	switch ext := strings.ToLower(filepath.Ext(p.path)); ext {
	case ".csv":
		return readCSV(f)
	case ".json":
		return readJSON(f)
	default:
		return nil, fmt.Errorf("unsupported catalog file type %q", ext)
	}
}

func readCSV(r io.Reader) ([]domain.FoodRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("catalog file is empty")
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var foods []domain.FoodRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}

		food, ok, err := mapRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", line, err)
		}
		if ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}

// jsonRecord accepts numbers, numeric strings or null for every nutrient
type jsonRecord struct {
	Name       string         `json:"food_name"`
	EnergyKcal domain.Numeric `json:"energy_kcal"`
	ProteinG   domain.Numeric `json:"protein_g"`
	CarbG      domain.Numeric `json:"carb_g"`
	FatG       domain.Numeric `json:"fat_g"`
}

func readJSON(r io.Reader) ([]domain.FoodRecord, error) {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}

	index := map[string]int{ColumnName: 0, ColumnEnergy: 1, ColumnProtein: 2, ColumnCarb: 3, ColumnFat: 4}
	foods := make([]domain.FoodRecord, 0, len(records))
	for i, rec := range records {
		row := []string{rec.Name, string(rec.EnergyKcal), string(rec.ProteinG), string(rec.CarbG), string(rec.FatG)}
		food, ok, err := mapRow(row, index)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i+1, err)
		}
		if ok {
			foods = append(foods, food)
		}
	}
	return foods, nil
}
