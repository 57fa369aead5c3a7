package usecase

import "github.com/mealplanner/backend/internal/domain"

// goalSetting is the calorie multiplier and macro split for a goal
type goalSetting struct {
	calorieFactor float64
	ratio         domain.MacroRatio
}

// goalSettings is keyed by the literal goal string. Lookups are case-sensitive:
// "Muscle Gain" gets the default setting.
var goalSettings = map[string]goalSetting{
	"muscle gain": {calorieFactor: 1.2, ratio: domain.MacroRatio{Protein: 0.3, Carb: 0.5, Fat: 0.2}},
	"weight loss": {calorieFactor: 0.8, ratio: domain.MacroRatio{Protein: 0.4, Carb: 0.4, Fat: 0.2}},
	"maintenance": {calorieFactor: 1.0, ratio: domain.MacroRatio{Protein: 0.3, Carb: 0.4, Fat: 0.3}},
}

var defaultGoalSetting = goalSetting{
	calorieFactor: 1.0,
	ratio:         domain.MacroRatio{Protein: 0.3, Carb: 0.4, Fat: 0.3},
}

// ResolveGoal maps a goal to the daily calorie target and macro ratio.
// Unknown goals fall back to maintenance-like defaults.
func ResolveGoal(goal string, tdee float64) (float64, domain.MacroRatio) {
	setting, ok := goalSettings[goal]
	if !ok {
		setting = defaultGoalSetting
	}
	return tdee * setting.calorieFactor, setting.ratio
}
