package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// MealSlot names a meal within a day
type MealSlot string

const (
	Breakfast MealSlot = "Breakfast"
	Lunch     MealSlot = "Lunch"
	Dinner    MealSlot = "Dinner"
)

// MealShare is the fraction of daily calories assigned to a slot
type MealShare struct {
	Slot  MealSlot
	Share float64
}

// DailyMealShares lists the meals of a day in the order they are planned.
var DailyMealShares = []MealShare{
	{Slot: Breakfast, Share: 0.3},
	{Slot: Lunch, Share: 0.4},
	{Slot: Dinner, Share: 0.3},
}

// PlanDays is the length of a generated plan
const PlanDays = 7

// DayLabel returns the display label for a 1-based day number.
func DayLabel(day int) string {
	return fmt.Sprintf("Day %d", day)
}

// SelectedItem is a food and the portion chosen for it
type SelectedItem struct {
	Food     FoodRecord `json:"food"`
	PortionG float64    `json:"portion_g"`
}

// String renders the item as "name (123.4g)".
func (s SelectedItem) String() string {
	return fmt.Sprintf("%s (%.1fg)", s.Food.Name, s.PortionG)
}

// MarshalJSON adds a display label next to the structured fields
func (s SelectedItem) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Name     string     `json:"name"`
		PortionG float64    `json:"portion_g"`
		Display  string     `json:"display"`
		Food     FoodRecord `json:"food"`
	}{
		Name:     s.Food.Name,
		PortionG: s.PortionG,
		Display:  s.String(),
		Food:     s.Food,
	})
}

// Meal is an ordered list of items with accumulated totals
type Meal struct {
	Items    []SelectedItem `json:"items"`
	Calories float64        `json:"calories"`
	Protein  float64        `json:"protein"`
	Carbs    float64        `json:"carbs"`
	Fats     float64        `json:"fats"`
}

// EmptyMeal is the result when no eligible foods remain. Items is non-nil so it
// serializes as an empty array.
func EmptyMeal() Meal {
	return Meal{Items: []SelectedItem{}}
}

// PlannedMeal binds a meal to its slot
type PlannedMeal struct {
	Slot MealSlot
	Meal Meal
}

// DayPlan holds the meals of a single day in planning order
type DayPlan struct {
	Label string
	Meals []PlannedMeal
}

// Meal returns the meal for a slot.
func (d DayPlan) Meal(slot MealSlot) (Meal, bool) {
	for _, m := range d.Meals {
		if m.Slot == slot {
			return m.Meal, true
		}
	}
	return Meal{}, false
}

// MarshalJSON emits the meals as an object keyed by slot, in planning order.
func (d DayPlan) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(d.Meals))
	values := make([]any, len(d.Meals))
	for i, m := range d.Meals {
		keys[i] = string(m.Slot)
		values[i] = m.Meal
	}
	return marshalOrdered(keys, values)
}

// PlanSummary describes the energy targets a plan was built for
type PlanSummary struct {
	BMR            float64    `json:"bmr"`
	TDEE           float64    `json:"tdee"`
	TargetCalories float64    `json:"targetCalories"`
	MacroRatio     MacroRatio `json:"macroRatio"`
	Goal           string     `json:"goal"`
	ActivityLevel  string     `json:"activityLevel"`
}

// WeeklyPlan is the full multi-day plan for one request
type WeeklyPlan struct {
	ID          string
	UserID      string
	Summary     PlanSummary
	Days        []DayPlan
	GeneratedAt time.Time
}

// Day returns the day with the given label.
func (w WeeklyPlan) Day(label string) (DayPlan, bool) {
	for _, d := range w.Days {
		if d.Label == label {
			return d, true
		}
	}
	return DayPlan{}, false
}

// MarshalJSON keeps days in ascending order
func (w WeeklyPlan) MarshalJSON() ([]byte, error) {
	keys := make([]string, len(w.Days))
	values := make([]any, len(w.Days))
	for i, d := range w.Days {
		keys[i] = d.Label
		values[i] = d
	}
	days, err := marshalOrdered(keys, values)
	if err != nil {
		return nil, err
	}

	return json.Marshal(struct {
		ID          string          `json:"id,omitempty"`
		UserID      string          `json:"userId"`
		Summary     PlanSummary     `json:"summary"`
		Days        json.RawMessage `json:"days"`
		GeneratedAt time.Time       `json:"generatedAt"`
	}{
		ID:          w.ID,
		UserID:      w.UserID,
		Summary:     w.Summary,
		Days:        days,
		GeneratedAt: w.GeneratedAt,
	})
}

// marshalOrdered writes a JSON object whose keys keep the given order.
func marshalOrdered(keys []string, values []any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Numeric holds a biometric value that may arrive as a JSON number or a numeric string.
// Conversion happens later so that bad input surfaces as ErrInvalidInput.
type Numeric string

// UnmarshalJSON accepts numbers and strings
func (n *Numeric) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*n = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = Numeric(s)
		return nil
	}
	*n = Numeric(b)
	return nil
}

// MarshalJSON writes the raw value as a string
func (n Numeric) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

// Float64 parses the value. NaN and infinities are rejected.
func (n Numeric) Float64() (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", string(n))
	}
	return v, nil
}

// Int parses a whole number. Integral floats such as "30.0" are accepted,
// fractional values are not.
func (n Numeric) Int() (int, error) {
	s := strings.TrimSpace(string(n))
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("not a whole number: %q", s)
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("out of range: %q", s)
	}
	return int(f), nil
}

// PlanRequest carries the biometric inputs for plan generation
type PlanRequest struct {
	Weight        Numeric `json:"weight" binding:"required"`
	Height        Numeric `json:"height" binding:"required"`
	Age           Numeric `json:"age" binding:"required"`
	Gender        string  `json:"gender"`
	ActivityLevel string  `json:"activity_level"`
	Goal          string  `json:"goal"`
	UserID        string  `json:"user"`
}
