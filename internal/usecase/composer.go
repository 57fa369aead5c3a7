package usecase

import (
	"math"
	"math/rand/v2"

	"github.com/mealplanner/backend/internal/domain"
	"github.com/mealplanner/backend/internal/infrastructure/logging"
	"go.uber.org/zap"
)

// Selection limits for a single meal
const (
	minEligibleKcal = 20.0 // records at or below this are ignored
	sampleSize      = 30   // candidates drawn per meal
	maxItemsPerMeal = 4
	minPortionG     = 30.0
	maxPortionG     = 300.0
	macroSlack      = 1.3 // each macro may reach 130% of its target
)

// MealComposer greedily fills a meal from a random sample of eligible foods.
// It is not safe for concurrent use; each plan generation owns its composer.
type MealComposer struct {
	rng                *rand.Rand
	logger             *zap.Logger
	enableDebugLogging bool
}

// NewMealComposer creates a composer drawing samples from rng
func NewMealComposer(rng *rand.Rand, logger *zap.Logger, enableDebugLogging bool) *MealComposer {
	return &MealComposer{
		rng:                rng,
		logger:             logging.OrNop(logger),
		enableDebugLogging: enableDebugLogging,
	}
}

// Compose selects up to four foods and portions for one meal.
// Every accepted food name is added to used, so later calls sharing the same set
// will not pick it again. An empty meal is returned when nothing is eligible.
func (c *MealComposer) Compose(
	foods []domain.FoodRecord,
	calorieTarget float64,
	ratio domain.MacroRatio,
	used domain.UsedFoods,
) domain.Meal {
	targets := domain.NewNutrientTargets(calorieTarget, ratio)

	eligible := eligibleFoods(foods, used)
	if len(eligible) == 0 {
		if c.enableDebugLogging {
			c.logger.Debug("no eligible foods for meal",
				zap.Float64("calorie_target", calorieTarget),
				zap.Int("used_foods", used.Len()),
			)
		}
		return domain.EmptyMeal()
	}

	candidates := c.sample(eligible, sampleSize)

	meal := domain.Meal{Items: make([]domain.SelectedItem, 0, maxItemsPerMeal)}
	var calories, protein, carbs, fats float64

	for _, food := range candidates {
		if calories >= targets.Calories || len(meal.Items) >= maxItemsPerMeal {
			break
		}

		portion := clamp(minPortionG, maxPortionG,
			(targets.Calories-calories)/math.Max(food.EnergyKcal, 1)*100)

		// Unreachable after clamp.
		if portion < minPortionG || portion > maxPortionG {
			continue
		}

		expectedProtein := food.ProteinG * portion / 100
		expectedCarbs := food.CarbG * portion / 100
		expectedFats := food.FatG * portion / 100

		withinCeiling := protein+expectedProtein <= targets.ProteinG*macroSlack &&
			carbs+expectedCarbs <= targets.CarbG*macroSlack &&
			fats+expectedFats <= targets.FatG*macroSlack
		if !withinCeiling {
			if c.enableDebugLogging {
				c.logger.Debug("food rejected over macro ceiling",
					zap.String("food", food.Name),
					zap.Float64("portion_g", portion),
				)
			}
			continue
		}

		meal.Items = append(meal.Items, domain.SelectedItem{Food: food, PortionG: round1(portion)})
		used.Add(food.Name)

		calories += food.EnergyKcal * portion / 100
		protein += expectedProtein
		carbs += expectedCarbs
		fats += expectedFats

		if c.enableDebugLogging {
			c.logger.Debug("food accepted",
				zap.String("food", food.Name),
				zap.Float64("portion_g", portion),
				zap.Float64("meal_calories", calories),
			)
		}
	}

	meal.Calories = round1(calories)
	meal.Protein = round1(protein)
	meal.Carbs = round1(carbs)
	meal.Fats = round1(fats)
	return meal
}

// eligibleFoods keeps records with plausible energy whose names are not yet used
func eligibleFoods(foods []domain.FoodRecord, used domain.UsedFoods) []domain.FoodRecord {
	eligible := make([]domain.FoodRecord, 0, len(foods))
	for _, food := range foods {
		if food.EnergyKcal > minEligibleKcal && !used.Has(food.Name) {
			eligible = append(eligible, food)
		}
	}
	return eligible
}

// sample draws up to n records uniformly without replacement by shuffling a copy
// and taking its prefix. The result order is the draw order.
func (c *MealComposer) sample(foods []domain.FoodRecord, n int) []domain.FoodRecord {
	shuffled := make([]domain.FoodRecord, len(foods))
	copy(shuffled, foods)
	c.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if len(shuffled) > n {
		shuffled = shuffled[:n]
	}
	return shuffled
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
