package usecase

import "github.com/mealplanner/backend/internal/domain"

// Planner assembles days and weeks from composed meals
type Planner struct {
	composer *MealComposer
}

// NewPlanner creates a planner around a composer
func NewPlanner(composer *MealComposer) *Planner {
	return &Planner{composer: composer}
}

// PlanDay composes breakfast, lunch and dinner in that order from shares of
// dailyCalories. The meals share used, so a food picked for breakfast is not
// available for lunch or dinner.
func (p *Planner) PlanDay(
	label string,
	foods []domain.FoodRecord,
	dailyCalories float64,
	ratio domain.MacroRatio,
	used domain.UsedFoods,
) domain.DayPlan {
	day := domain.DayPlan{
		Label: label,
		Meals: make([]domain.PlannedMeal, 0, len(domain.DailyMealShares)),
	}
	for _, share := range domain.DailyMealShares {
		meal := p.composer.Compose(foods, dailyCalories*share.Share, ratio, used)
		day.Meals = append(day.Meals, domain.PlannedMeal{Slot: share.Slot, Meal: meal})
	}
	return day
}

// PlanWeek plans seven consecutive days against one used-food set, so later
// days avoid foods chosen earlier in the week. userID is carried through as is.
func (p *Planner) PlanWeek(
	foods []domain.FoodRecord,
	targetCalories float64,
	ratio domain.MacroRatio,
	userID string,
) domain.WeeklyPlan {
	used := domain.NewUsedFoods()

	plan := domain.WeeklyPlan{
		UserID: userID,
		Days:   make([]domain.DayPlan, 0, domain.PlanDays),
	}
	for day := 1; day <= domain.PlanDays; day++ {
		plan.Days = append(plan.Days, p.PlanDay(domain.DayLabel(day), foods, targetCalories, ratio, used))
	}
	return plan
}
