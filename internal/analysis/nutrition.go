package analysis

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pageza/fitcoach/backend/internal/model"
)

// ParseNutrition extracts a food nutrition breakdown from model output. The
// returned result is always normalized.
func ParseNutrition(text string) (model.NutritionResult, Source) {
	if root, ok := extractJSONObject(text, nutritionKeys); ok {
		return NormalizeNutrition(nutritionFromJSON(root)), SourceJSON
	}
	if r, ok := nutritionFromScan(scanText(text)); ok {
		return NormalizeNutrition(r), SourceFallback
	}
	return model.DefaultNutrition(), SourceDefault
}

func nutritionFromJSON(root object) model.NutritionResult {
	r := model.NutritionResult{CalorieData: map[string]model.FoodMacros{}}
	if v, ok := root.get("calorie_data"); ok {
		r.CalorieData = foodItems(v)
	}
	if v, ok := root.get("total_calories"); ok {
		r.TotalCalories, _ = toNumber(v)
	}
	if v, ok := root.get("analysis"); ok {
		r.Analysis, _ = toText(v)
	}
	return r
}

// nutritionFromScan builds a result from pairs recovered by the tolerant
// scanner. The total is always the sum of the recovered items. It reports
// false when nothing at all was recognized.
func nutritionFromScan(root object) (model.NutritionResult, bool) {
	r := model.NutritionResult{}
	if v, ok := root.find(isItemContainer, "calorie_data"); ok {
		r.CalorieData = foodItems(v)
	} else {
		r.CalorieData = map[string]model.FoodMacros{}
		collectFoodItems(root, r.CalorieData)
	}

	for _, m := range r.CalorieData {
		r.TotalCalories += nonNegative(m.Calories)
	}

	analysis, hasAnalysis := root.find(isString, "analysis")
	if hasAnalysis {
		r.Analysis, hasAnalysis = toText(analysis)
	}

	if len(r.CalorieData) > 0 {
		if !hasAnalysis {
			r.Analysis = model.FoodPartialText
		}
		return r, true
	}

	total, hasTotal := root.find(isNumeric, "total_calories")
	if hasTotal {
		r.TotalCalories, _ = toNumber(total)
	}
	if !hasTotal && !hasAnalysis {
		return r, false
	}
	if !hasAnalysis {
		r.Analysis = model.FoodPartialText
	}
	return r, true
}

// FoodItemsFromJSON decodes a client-supplied calorie_data document with
// the same leniency applied to model output: numeric strings, alternate
// macro names and item lists are accepted.
func FoodItemsFromJSON(data []byte) (map[string]model.FoodMacros, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return foodItems(fromJSON(v)), nil
}

// foodItems reads a calorie_data value: either an object keyed by food name
// or a list of objects that carry their own name.
func foodItems(v any) map[string]model.FoodMacros {
	items := map[string]model.FoodMacros{}
	switch t := v.(type) {
	case object:
		for _, m := range t {
			if name := itemName(m.key, m.value); name != "" {
				items[name] = macrosOf(m.value)
			}
		}
	case array:
		for _, e := range t {
			if name := itemName("", e); name != "" {
				items[name] = macrosOf(e)
			}
		}
	}
	return items
}

// collectFoodItems gathers every object that holds a calories field, at any
// depth. Objects keyed as a meal total are not food items.
func collectFoodItems(o object, items map[string]model.FoodMacros) {
	for _, m := range o {
		if isTotalKey(m.key) {
			continue
		}
		if obj, ok := m.value.(object); ok {
			if _, hasCalories := obj.get("calories"); hasCalories {
				if name := itemName(m.key, obj); name != "" {
					items[name] = macrosOf(obj)
				}
				continue
			}
		}
		collectIn(m.value, items)
	}
}

func collectIn(v any, items map[string]model.FoodMacros) {
	switch t := v.(type) {
	case object:
		collectFoodItems(t, items)
	case array:
		for _, e := range t {
			if obj, ok := e.(object); ok {
				if _, hasCalories := obj.get("calories"); hasCalories {
					if name := itemName("", obj); name != "" {
						items[name] = macrosOf(obj)
					}
					continue
				}
			}
			collectIn(e, items)
		}
	}
}

func isTotalKey(key string) bool {
	switch canonicalKey(key) {
	case "total", "totals", "total_calories":
		return true
	}
	return false
}

func itemName(key string, v any) string {
	if strings.TrimSpace(key) != "" {
		return key
	}
	if obj, ok := v.(object); ok {
		if n, ok := obj.get("name", "food", "item"); ok {
			if s, ok := toText(n); ok {
				return s
			}
		}
	}
	return ""
}

// macrosOf reads the four macro fields in any order. A bare number is taken
// as the calorie count.
func macrosOf(v any) model.FoodMacros {
	obj, ok := v.(object)
	if !ok {
		c, _ := toNumber(v)
		return model.FoodMacros{Calories: c}
	}
	field := func(names ...string) float64 {
		if f, ok := obj.get(names...); ok {
			n, _ := toNumber(f)
			return n
		}
		return 0
	}
	return model.FoodMacros{
		Calories: field("calories", "kcal"),
		Protein:  field("protein", "protein_g"),
		Carbs:    field("carbs", "carbohydrates", "carbs_g"),
		Fat:      field("fat", "fat_g"),
	}
}
