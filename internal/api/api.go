package api

import (
	"github.com/gin-gonic/gin"
)

// Handlers groups every HTTP handler of the API.
type Handlers struct {
	Analysis *AnalysisHandler
	Chat     *ChatHandler
	Diet     *DietHandler
	Daily    *DailyLogHandler
	Profile  *ProfileHandler
	Health   *HealthHandler
}

// RegisterRoutes registers all API routes. modelLimits wrap the endpoints
// that call the generative model.
func RegisterRoutes(router *gin.Engine, h Handlers, modelLimits ...gin.HandlerFunc) {
	router.GET("/health", h.Health.Health)

	apiGroup := router.Group("/api")
	apiGroup.GET("/health", h.Health.Health)

	modelGroup := apiGroup.Group("", modelLimits...)
	h.Analysis.RegisterRoutes(modelGroup)
	h.Chat.RegisterRoutes(modelGroup)

	h.Diet.RegisterRoutes(apiGroup)
	h.Daily.RegisterRoutes(apiGroup)
	h.Profile.RegisterRoutes(apiGroup)
}
