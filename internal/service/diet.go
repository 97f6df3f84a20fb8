package service

import "github.com/pageza/fitcoach/backend/internal/model"

// DietService serves the recommended daily meal plan.
type DietService struct{}

// NewDietService creates a new DietService instance
func NewDietService() *DietService {
	return &DietService{}
}

// Recommended returns the standard high-protein day plan. Meal totals are
// computed from the listed foods.
func (s *DietService) Recommended() model.DietPlan {
	return model.DietPlan{
		Breakfast: meal("High Protein Breakfast",
			"Start your day with protein-rich foods for sustained energy",
			food("Scrambled Eggs", "3 eggs", 220, 14, 2, 16),
			food("Whole Grain Toast", "1 slice", 80, 4, 15, 1),
			food("Avocado", "1/2 medium", 120, 1, 6, 10),
			food("Black Coffee", "1 cup", 5, 0, 1, 0),
		),
		Lunch: meal("Balanced Protein Bowl",
			"Balance of lean protein, complex carbs, and healthy fats",
			food("Grilled Chicken Breast", "100g", 165, 31, 0, 3.6),
			food("Brown Rice", "1/2 cup cooked", 150, 3, 32, 1),
			food("Mixed Vegetables", "1 cup", 50, 2, 10, 0),
			food("Olive Oil", "1 tsp", 40, 0, 0, 4.5),
		),
		Dinner: meal("Lean Dinner",
			"Light on carbs, focus on protein and vegetables",
			food("Baked Salmon", "100g", 206, 22, 0, 13),
			food("Steamed Broccoli", "1 cup", 55, 3.7, 11, 0.5),
			food("Sweet Potato", "1 small", 115, 2, 27, 0),
		),
		Snacks: meal("Healthy Snacks",
			"Protein-rich snacks to maintain energy levels throughout the day",
			food("Greek Yogurt", "3/4 cup", 100, 17, 6, 0),
			food("Mixed Nuts", "1 oz (28g)", 173, 5, 6, 16),
			food("Apple", "1 medium", 95, 0.5, 25, 0.3),
		),
	}
}

func meal(name, description string, foods ...model.PlannedFood) model.MealPlan {
	plan := model.MealPlan{Name: name, Description: description, FoodItems: foods}
	for _, f := range foods {
		plan.TotalCalories += f.Details.Calories
	}
	return plan
}

func food(name, portion string, calories, protein, carbs, fat float64) model.PlannedFood {
	return model.PlannedFood{
		Name:    name,
		Portion: portion,
		Details: model.FoodMacros{Calories: calories, Protein: protein, Carbs: carbs, Fat: fat},
	}
}
