package usecase

import "github.com/mealplanner/backend/internal/domain"

// activityMultipliers maps activity levels (normalized) to their TDEE multiplier
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly active":    1.375,
	"moderately active": 1.55,
	"very active":       1.725,
	"super active":      1.9,
}

// defaultActivityMultiplier is applied to unrecognized activity levels (sedentary)
const defaultActivityMultiplier = 1.2

// CalculateBMR estimates basal metabolic rate with the Mifflin-St Jeor equation.
// Gender is a two-way flag: "male" in any case selects the male constant, every
// other value selects the female one.
func CalculateBMR(weightKg, heightCm float64, ageYears int, gender string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(ageYears)
	if domain.NormalizeName(gender) == "male" {
		return bmr + 5
	}
	return bmr - 161
}

// ActivityMultiplier returns the multiplier for an activity level, matched case-insensitively.
func ActivityMultiplier(activityLevel string) float64 {
	if mult, ok := activityMultipliers[domain.NormalizeName(activityLevel)]; ok {
		return mult
	}
	return defaultActivityMultiplier
}

// CalculateTDEE scales BMR by the activity multiplier
func CalculateTDEE(bmr float64, activityLevel string) float64 {
	return bmr * ActivityMultiplier(activityLevel)
}
