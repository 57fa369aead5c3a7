package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mealplanner/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockFoodCatalog is a fixed in-memory catalog
type MockFoodCatalog struct {
	foods []domain.FoodRecord
}

func (m *MockFoodCatalog) Foods() []domain.FoodRecord {
	return m.foods
}

func (m *MockFoodCatalog) Names() []string {
	names := make([]string, 0, len(m.foods))
	for _, f := range m.foods {
		names = append(names, f.Name)
	}
	return names
}

func (m *MockFoodCatalog) FindByName(name string) (*domain.FoodRecord, error) {
	for i := range m.foods {
		if domain.NormalizeName(m.foods[i].Name) == domain.NormalizeName(name) {
			food := m.foods[i]
			return &food, nil
		}
	}
	return nil, domain.ErrFoodNotFound
}

func testCatalog() *MockFoodCatalog {
	return &MockFoodCatalog{foods: []domain.FoodRecord{
		{Name: "Boiled rice", EnergyKcal: 130, ProteinG: 2.7, CarbG: 28, FatG: 0.3},
		{Name: "Dal tadka", EnergyKcal: 116, ProteinG: 6.8, CarbG: 16, FatG: 3.2},
		{Name: "Paneer tikka", EnergyKcal: 265, ProteinG: 18, CarbG: 6, FatG: 20},
		{Name: "Chapati", EnergyKcal: 297, ProteinG: 9.8, CarbG: 46, FatG: 7.5},
		{Name: "Chicken curry", EnergyKcal: 165, ProteinG: 16, CarbG: 4, FatG: 9},
		{Name: "Poha", EnergyKcal: 180, ProteinG: 3.5, CarbG: 33, FatG: 4},
		{Name: "Idli", EnergyKcal: 58, ProteinG: 2, CarbG: 12, FatG: 0.4},
		{Name: "Curd", EnergyKcal: 60, ProteinG: 3.1, CarbG: 4.7, FatG: 3.3},
		{Name: "Banana", EnergyKcal: 89, ProteinG: 1.1, CarbG: 23, FatG: 0.3},
		{Name: "Green tea", EnergyKcal: 1},
	}}
}

func validRequest() *domain.PlanRequest {
	return &domain.PlanRequest{
		Weight:        "70",
		Height:        "175",
		Age:           "25",
		Gender:        "male",
		ActivityLevel: "moderately active",
		Goal:          "maintenance",
		UserID:        "user-42",
	}
}

func TestPlanService_GeneratePlan(t *testing.T) {
	service := NewPlanService(testCatalog(), nil, PlanServiceConfig{Seed: 7})
	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	service.now = func() time.Time { return fixed }

	plan, err := service.GeneratePlan(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, "user-42", plan.UserID)
	assert.Equal(t, fixed, plan.GeneratedAt)
	assert.Equal(t, 1673.8, plan.Summary.BMR)
	assert.Equal(t, 2594.3, plan.Summary.TDEE)
	assert.Equal(t, 2594.3, plan.Summary.TargetCalories)
	assert.Equal(t, domain.MacroRatio{Protein: 0.3, Carb: 0.4, Fat: 0.3}, plan.Summary.MacroRatio)
	assert.Equal(t, "maintenance", plan.Summary.Goal)
	require.Len(t, plan.Days, domain.PlanDays)

	for _, day := range plan.Days {
		for _, m := range day.Meals {
			for _, item := range m.Meal.Items {
				assert.NotEqual(t, "Green tea", item.Food.Name)
			}
		}
	}
}

func TestPlanService_SeedIsDeterministic(t *testing.T) {
	service := NewPlanService(testCatalog(), nil, PlanServiceConfig{Seed: 99})

	first, err := service.GeneratePlan(context.Background(), validRequest())
	require.NoError(t, err)
	second, err := service.GeneratePlan(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Days, second.Days)
}

func TestPlanService_NumericInputs(t *testing.T) {
	service := NewPlanService(testCatalog(), nil, PlanServiceConfig{Seed: 1})

	req := validRequest()
	req.Weight = "70.0"
	req.Height = "175"
	req.Age = "25"
	plan, err := service.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1673.8, plan.Summary.BMR)

	tests := []struct {
		name   string
		mutate func(*domain.PlanRequest)
	}{
		{"weight text", func(r *domain.PlanRequest) { r.Weight = "seventy" }},
		{"height empty", func(r *domain.PlanRequest) { r.Height = "" }},
		{"age text", func(r *domain.PlanRequest) { r.Age = "old" }},
		{"fractional age", func(r *domain.PlanRequest) { r.Age = "30.9" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := service.GeneratePlan(context.Background(), req)
			assert.True(t, errors.Is(err, domain.ErrInvalidInput))
		})
	}
}

func TestPlanService_Goals(t *testing.T) {
	service := NewPlanService(testCatalog(), nil, PlanServiceConfig{Seed: 3})

	req := validRequest()
	req.Goal = "weight loss"
	plan, err := service.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.InDelta(t, 2594.3125*0.8, plan.Summary.TargetCalories, 0.05)

	req.Goal = "Weight Loss"
	plan, err = service.GeneratePlan(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 2594.3, plan.Summary.TargetCalories)
}

func TestPlanService_Errors(t *testing.T) {
	service := NewPlanService(testCatalog(), nil, PlanServiceConfig{})

	_, err := service.GeneratePlan(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	noCatalog := NewPlanService(nil, nil, PlanServiceConfig{})
	_, err = noCatalog.GeneratePlan(context.Background(), validRequest())
	assert.ErrorIs(t, err, domain.ErrCatalogUnavailable)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = service.GeneratePlan(ctx, validRequest())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPlanService_EmptyCatalog(t *testing.T) {
	service := NewPlanService(&MockFoodCatalog{}, nil, PlanServiceConfig{Seed: 1})

	plan, err := service.GeneratePlan(context.Background(), validRequest())
	require.NoError(t, err)
	require.Len(t, plan.Days, domain.PlanDays)
	for _, day := range plan.Days {
		for _, m := range day.Meals {
			assert.Equal(t, domain.EmptyMeal(), m.Meal)
		}
	}
}
