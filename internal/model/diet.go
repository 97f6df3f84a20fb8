package model

// PlannedFood is one food in a recommended meal.
type PlannedFood struct {
	Name    string     `json:"name"`
	Details FoodMacros `json:"details"`
	Portion string     `json:"portion"`
}

// MealPlan groups the foods recommended for one meal.
type MealPlan struct {
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	FoodItems     []PlannedFood `json:"foodItems"`
	TotalCalories float64       `json:"totalCalories"`
}

// DietPlan is a full day of recommended meals.
type DietPlan struct {
	Breakfast MealPlan `json:"breakfast"`
	Lunch     MealPlan `json:"lunch"`
	Dinner    MealPlan `json:"dinner"`
	Snacks    MealPlan `json:"snacks"`
}
