package domain

import "strings"

// Energy conversion factors (kcal per gram)
const (
	KcalPerGramProtein = 4.0
	KcalPerGramCarb    = 4.0
	KcalPerGramFat     = 9.0
)

// FoodRecord is one catalog entry. All nutrient values are per 100 g.
type FoodRecord struct {
	Name       string  `json:"food_name"`
	EnergyKcal float64 `json:"energy_kcal"`
	ProteinG   float64 `json:"protein_g"`
	CarbG      float64 `json:"carb_g"`
	FatG       float64 `json:"fat_g"`
}

// MacroRatio is the fractional split of calories across protein, carbohydrate and fat.
// The fractions are not normalized.
type MacroRatio struct {
	Protein float64 `json:"protein"`
	Carb    float64 `json:"carb"`
	Fat     float64 `json:"fat"`
}

// NutrientTargets are the per-meal goals derived from a calorie target and a MacroRatio
type NutrientTargets struct {
	Calories float64
	ProteinG float64
	CarbG    float64
	FatG     float64
}

// NewNutrientTargets converts a calorie target into gram targets using 4/4/9 kcal per gram.
func NewNutrientTargets(calories float64, ratio MacroRatio) NutrientTargets {
	return NutrientTargets{
		Calories: calories,
		ProteinG: calories * ratio.Protein / KcalPerGramProtein,
		CarbG:    calories * ratio.Carb / KcalPerGramCarb,
		FatG:     calories * ratio.Fat / KcalPerGramFat,
	}
}

// NormalizeName is the single case-insensitive form used for catalog indexing,
// name lookups, detector labels and enumerated text inputs.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// UsedFoods tracks food names already placed in a plan.
// Names are compared exactly as stored.
type UsedFoods map[string]struct{}

// NewUsedFoods returns an empty set
func NewUsedFoods() UsedFoods {
	return make(UsedFoods)
}

// Add marks a food name as used
func (u UsedFoods) Add(name string) {
	u[name] = struct{}{}
}

// Has reports whether name was already used
func (u UsedFoods) Has(name string) bool {
	_, ok := u[name]
	return ok
}

// Len returns the number of distinct names used
func (u UsedFoods) Len() int {
	return len(u)
}
