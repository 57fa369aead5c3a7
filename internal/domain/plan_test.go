package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNutrientTargets(t *testing.T) {
	targets := NewNutrientTargets(400, MacroRatio{Protein: 0.3, Carb: 0.4, Fat: 0.3})

	assert.Equal(t, 400.0, targets.Calories)
	assert.InDelta(t, 30.0, targets.ProteinG, 1e-9)
	assert.InDelta(t, 40.0, targets.CarbG, 1e-9)
	assert.InDelta(t, 13.3333333, targets.FatG, 1e-6)
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Chapati", "chapati"},
		{"  Masala Dosa ", "masala dosa"},
		{"LIGHTLY ACTIVE", "lightly active"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeName(tt.in))
		})
	}
}

func TestUsedFoods(t *testing.T) {
	used := NewUsedFoods()
	assert.Equal(t, 0, used.Len())

	used.Add("Rice")
	used.Add("Rice")

	assert.True(t, used.Has("Rice"))
	assert.False(t, used.Has("rice"), "names are compared exactly as stored")
	assert.Equal(t, 1, used.Len())
}

func TestSelectedItem_String(t *testing.T) {
	item := SelectedItem{Food: FoodRecord{Name: "Chapati"}, PortionG: 120.5}
	assert.Equal(t, "Chapati (120.5g)", item.String())

	item.PortionG = 300
	assert.Equal(t, "Chapati (300.0g)", item.String())
}

func TestEmptyMeal_JSON(t *testing.T) {
	data, err := json.Marshal(EmptyMeal())
	require.NoError(t, err)

	assert.JSONEq(t, `{"items":[],"calories":0,"protein":0,"carbs":0,"fats":0}`, string(data))
}

func TestDayPlan_MarshalJSON_KeepsMealOrder(t *testing.T) {
	day := DayPlan{
		Label: "Day 1",
		Meals: []PlannedMeal{
			{Slot: Breakfast, Meal: EmptyMeal()},
			{Slot: Lunch, Meal: EmptyMeal()},
			{Slot: Dinner, Meal: EmptyMeal()},
		},
	}

	data, err := json.Marshal(day)
	require.NoError(t, err)

	s := string(data)
	b := strings.Index(s, `"Breakfast"`)
	l := strings.Index(s, `"Lunch"`)
	d := strings.Index(s, `"Dinner"`)
	assert.True(t, b >= 0 && b < l && l < d, "meals out of order: %s", s)
}

func TestWeeklyPlan_MarshalJSON(t *testing.T) {
	plan := WeeklyPlan{
		ID:          "plan-1",
		UserID:      "user-42",
		GeneratedAt: time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	for day := 1; day <= PlanDays; day++ {
		plan.Days = append(plan.Days, DayPlan{Label: DayLabel(day)})
	}

	data, err := json.Marshal(plan)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "user-42", decoded["userId"])
	assert.Equal(t, "plan-1", decoded["id"])

	days, ok := decoded["days"].(map[string]any)
	require.True(t, ok)
	assert.Len(t, days, PlanDays)

	s := string(data)
	prev := -1
	for day := 1; day <= PlanDays; day++ {
		idx := strings.Index(s, `"`+DayLabel(day)+`"`)
		assert.Greater(t, idx, prev, "day %d out of order", day)
		prev = idx
	}
}

func TestWeeklyPlan_Day(t *testing.T) {
	plan := WeeklyPlan{Days: []DayPlan{{Label: "Day 1"}, {Label: "Day 2"}}}

	d, ok := plan.Day("Day 2")
	assert.True(t, ok)
	assert.Equal(t, "Day 2", d.Label)

	_, ok = plan.Day("Day 9")
	assert.False(t, ok)
}

func TestNumeric_UnmarshalJSON(t *testing.T) {
	var req PlanRequest
	body := `{"weight": 70.5, "height": "175", "age": 30, "gender": "male", "user": "u1"}`
	require.NoError(t, json.Unmarshal([]byte(body), &req))

	w, err := req.Weight.Float64()
	require.NoError(t, err)
	assert.Equal(t, 70.5, w)

	h, err := req.Height.Float64()
	require.NoError(t, err)
	assert.Equal(t, 175.0, h)

	a, err := req.Age.Int()
	require.NoError(t, err)
	assert.Equal(t, 30, a)
	assert.Equal(t, "u1", req.UserID)
}

func TestNumeric_Conversions(t *testing.T) {
	tests := []struct {
		name       string
		value      Numeric
		wantFloat  float64
		wantInt    int
		wantErr    bool
		wantIntErr bool
	}{
		{name: "integer", value: "25", wantFloat: 25, wantInt: 25},
		{name: "padded", value: " 42 ", wantFloat: 42, wantInt: 42},
		{name: "integral float", value: "30.0", wantFloat: 30, wantInt: 30},
		{name: "fraction", value: "29.9", wantFloat: 29.9, wantIntErr: true},
		{name: "empty", value: "", wantErr: true},
		{name: "word", value: "abc", wantErr: true},
		{name: "nan", value: "NaN", wantErr: true},
		{name: "infinity", value: "Inf", wantErr: true},
		{name: "boolean literal", value: "true", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := tt.value.Float64()
			if tt.wantErr {
				assert.Error(t, err)
				_, err = tt.value.Int()
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFloat, f)

			i, err := tt.value.Int()
			if tt.wantIntErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantInt, i)
		})
	}
}
