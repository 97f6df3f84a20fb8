package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/fitcoach/backend/internal/model"
	"github.com/pageza/fitcoach/backend/internal/service"
)

func TestDietRecommended(t *testing.T) {
	r := gin.New()
	NewDietHandler(service.NewDietService()).RegisterRoutes(r.Group("/api"))

	w := performJSON(t, r, http.MethodGet, "/api/diet/recommended", nil, nil)

	require.Equal(t, http.StatusOK, w.Code)
	var plan model.DietPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, "High Protein Breakfast", plan.Breakfast.Name)
	assert.Equal(t, 425.0, plan.Breakfast.TotalCalories)
	assert.NotEmpty(t, plan.Snacks.FoodItems)
	assert.Contains(t, w.Body.String(), `"foodItems"`)
	assert.Contains(t, w.Body.String(), `"totalCalories"`)
}
