package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDietService_Recommended(t *testing.T) {
	plan := NewDietService().Recommended()

	assert.Equal(t, "High Protein Breakfast", plan.Breakfast.Name)
	assert.Len(t, plan.Breakfast.FoodItems, 4)
	assert.Equal(t, 425.0, plan.Breakfast.TotalCalories)
	assert.Equal(t, 405.0, plan.Lunch.TotalCalories)
	assert.Equal(t, 376.0, plan.Dinner.TotalCalories)
	assert.Equal(t, 368.0, plan.Snacks.TotalCalories)

	salmon := plan.Dinner.FoodItems[0]
	assert.Equal(t, "Baked Salmon", salmon.Name)
	assert.Equal(t, "100g", salmon.Portion)
	assert.Equal(t, 22.0, salmon.Details.Protein)
}
