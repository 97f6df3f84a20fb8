package model

// FoodMacros represents the nutrition estimate for one identified food item.
type FoodMacros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// NutritionResult is the structured outcome of a food image analysis.
type NutritionResult struct {
	CalorieData   map[string]FoodMacros `json:"calorie_data"`
	TotalCalories float64               `json:"total_calories"`
	Analysis      string                `json:"analysis"`
}

// MealItemName is the key used when no individual food items could be identified.
const MealItemName = "meal"

// DefaultMealCalories is the calorie estimate used when nothing better is known.
const DefaultMealCalories = 350

const (
	FoodUnanalyzedText     = "Could not analyze food items."
	FoodPartialText        = "Could not analyze food items in detail."
	FoodCallFailureText    = "Could not analyze the food image. Please try again with a clearer photo."
	FoodCallFailureMessage = "Failed to analyze food image"
)

// DefaultNutrition returns the result used when the model answer held nothing usable.
func DefaultNutrition() NutritionResult {
	return NutritionResult{
		CalorieData: map[string]FoodMacros{
			MealItemName: {Calories: DefaultMealCalories},
		},
		TotalCalories: DefaultMealCalories,
		Analysis:      FoodUnanalyzedText,
	}
}

// FailedNutrition returns the result served when the model could not be reached.
func FailedNutrition() NutritionResult {
	r := DefaultNutrition()
	r.Analysis = FoodCallFailureText
	return r
}
