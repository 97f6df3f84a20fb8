package analysis

import (
	"math"
	"strings"

	"github.com/pageza/fitcoach/backend/internal/model"
)

// NormalizeNutrition guarantees a renderable nutrition result: non-negative
// numbers, at least one food item, a total and a summary. Normalizing an
// already normalized result returns it unchanged.
func NormalizeNutrition(r model.NutritionResult) model.NutritionResult {
	out := model.NutritionResult{
		CalorieData: make(map[string]model.FoodMacros, len(r.CalorieData)),
		Analysis:    strings.TrimSpace(r.Analysis),
	}

	var sum float64
	for name, m := range r.CalorieData {
		if strings.TrimSpace(name) == "" {
			continue
		}
		m = model.FoodMacros{
			Calories: nonNegative(m.Calories),
			Protein:  nonNegative(m.Protein),
			Carbs:    nonNegative(m.Carbs),
			Fat:      nonNegative(m.Fat),
		}
		out.CalorieData[name] = m
		sum += m.Calories
	}

	out.TotalCalories = nonNegative(r.TotalCalories)
	switch {
	case len(out.CalorieData) == 0:
		if out.TotalCalories <= 0 {
			out.TotalCalories = model.DefaultMealCalories
		}
		out.CalorieData[model.MealItemName] = model.FoodMacros{Calories: out.TotalCalories}
	case out.TotalCalories <= 0:
		out.TotalCalories = sum
	}

	if out.Analysis == "" {
		out.Analysis = model.FoodPartialText
	}
	return out
}

// NormalizePosture guarantees a renderable posture result. The score is
// clamped to [0, 100] and both lists are non-nil with blank entries removed.
func NormalizePosture(r model.PostureResult) model.PostureResult {
	out := model.PostureResult{
		PostureScore:    clampScore(r.PostureScore),
		PostureIssues:   cleanList(r.PostureIssues),
		Recommendations: cleanList(r.Recommendations),
		Analysis:        strings.TrimSpace(r.Analysis),
	}
	if out.Analysis == "" {
		out.Analysis = model.PosturePartialText
	}
	return out
}

func nonNegative(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}

func roundScore(f float64) int {
	return clampScore(int(math.Round(math.Max(math.Min(f, model.MaxPostureScore), model.MinPostureScore))))
}

func clampScore(s int) int {
	if s < model.MinPostureScore {
		return model.MinPostureScore
	}
	if s > model.MaxPostureScore {
		return model.MaxPostureScore
	}
	return s
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
