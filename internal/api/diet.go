package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/fitcoach/backend/internal/model"
)

// DietPlanner provides the recommended daily meal plan.
type DietPlanner interface {
	Recommended() model.DietPlan
}

type DietHandler struct {
	planner DietPlanner
}

func NewDietHandler(planner DietPlanner) *DietHandler {
	return &DietHandler{planner: planner}
}

func (h *DietHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/diet/recommended", h.Recommended)
}

// Recommended handles GET /api/diet/recommended.
func (h *DietHandler) Recommended(c *gin.Context) {
	c.JSON(http.StatusOK, h.planner.Recommended())
}
