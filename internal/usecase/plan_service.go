package usecase

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// PlanServiceConfig holds configuration for the plan service
type PlanServiceConfig struct {
	// Seed fixes the random source of every plan when non-zero.
	Seed               uint64
	EnableDebugLogging bool
}

// PlanService turns biometric inputs into a weekly meal plan
type PlanService struct {
	catalog            domain.FoodCatalog
	logger             *zap.Logger
	seed               uint64
	enableDebugLogging bool
	now                func() time.Time
}

// NewPlanService creates a new plan service with dependencies
func NewPlanService(catalog domain.FoodCatalog, logger *zap.Logger, config PlanServiceConfig) *PlanService {
	return &PlanService{
		catalog:            catalog,
		logger:             logging.OrNop(logger),
		seed:               config.Seed,
		enableDebugLogging: config.EnableDebugLogging,
		now:                time.Now,
	}
}

// biometrics are the parsed numeric inputs of a PlanRequest
type biometrics struct {
	weightKg float64
	heightCm float64
	age      int
}

// GeneratePlan computes BMR, TDEE and the goal targets, then assembles a seven
// day plan from the catalog. Every call has its own random source and used-food
// set, so concurrent calls do not affect each other.
func (s *PlanService) GeneratePlan(ctx context.Context, request *domain.PlanRequest) (*domain.WeeklyPlan, error) {
	if request == nil {
		return nil, domain.ErrInvalidRequest
	}

	bio, err := parseBiometrics(request)
	if err != nil {
		return nil, err
	}

	if s.catalog == nil {
		return nil, domain.ErrCatalogUnavailable
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bmr := CalculateBMR(bio.weightKg, bio.heightCm, bio.age, request.Gender)
	tdee := CalculateTDEE(bmr, request.ActivityLevel)
	targetCalories, ratio := ResolveGoal(request.Goal, tdee)

	foods := s.catalog.Foods()
	planner := NewPlanner(NewMealComposer(s.newRand(), s.logger, s.enableDebugLogging))
	plan := planner.PlanWeek(foods, targetCalories, ratio, request.UserID)

	plan.ID = uuid.NewString()
	plan.GeneratedAt = s.now().UTC()
	plan.Summary = domain.PlanSummary{
		BMR:            round1(bmr),
		TDEE:           round1(tdee),
		TargetCalories: round1(targetCalories),
		MacroRatio:     ratio,
		Goal:           request.Goal,
		ActivityLevel:  request.ActivityLevel,
	}

	s.logger.Info("meal plan generated",
		zap.String("plan_id", plan.ID),
		zap.String("user_id", request.UserID),
		zap.Float64("target_calories", plan.Summary.TargetCalories),
		zap.Int("catalog_size", len(foods)),
		zap.Int("distinct_foods", countDistinctFoods(plan)),
	)

	return &plan, nil
}

// parseBiometrics coerces the numeric fields; any failure is ErrInvalidInput
func parseBiometrics(request *domain.PlanRequest) (biometrics, error) {
	weight, err := request.Weight.Float64()
	if err != nil {
		return biometrics{}, fmt.Errorf("%w: weight %q is not a number", domain.ErrInvalidInput, string(request.Weight))
	}
	height, err := request.Height.Float64()
	if err != nil {
		return biometrics{}, fmt.Errorf("%w: height %q is not a number", domain.ErrInvalidInput, string(request.Height))
	}
	age, err := request.Age.Int()
	if err != nil {
		return biometrics{}, fmt.Errorf("%w: age %q is not an integer", domain.ErrInvalidInput, string(request.Age))
	}
	return biometrics{weightKg: weight, heightCm: height, age: age}, nil
}

// newRand returns a fresh source per plan
func (s *PlanService) newRand() *rand.Rand {
	if s.seed != 0 {
		return rand.New(rand.NewPCG(s.seed, s.seed))
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// countDistinctFoods counts food names across every meal of a plan
func countDistinctFoods(plan domain.WeeklyPlan) int {
	seen := make(map[string]struct{})
	for _, day := range plan.Days {
		for _, meal := range day.Meals {
			for _, item := range meal.Meal.Items {
				seen[item.Food.Name] = struct{}{}
			}
		}
	}
	return len(seen)
}
