package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/config"
	"github.com/pageza/fitcoach/backend/internal/api"
	"github.com/pageza/fitcoach/backend/internal/metrics"
	"github.com/pageza/fitcoach/backend/internal/middleware"
)

// Dependencies are the pieces the router is assembled from. Limiter may be
// nil to disable rate limiting.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Limiter  middleware.Limiter
	Handlers api.Handlers
}

// SetupRouter configures the application routes
func SetupRouter(d Dependencies) *gin.Engine {
	if d.Config.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(d.Logger),
		middleware.Logger(d.Logger),
		middleware.CORS(d.Config.CORSOrigins),
		d.Metrics.Middleware(),
		middleware.OptionalAuth(d.Config.JWTSecret),
	)

	router.GET("/metrics", d.Metrics.Handler())

	var modelLimits []gin.HandlerFunc
	if d.Limiter != nil {
		modelLimits = append(modelLimits, middleware.RateLimit(d.Limiter, RateLimitConfig(d.Config), d.Logger))
	}
	api.RegisterRoutes(router, d.Handlers, modelLimits...)

	return router
}

// RateLimitConfig derives the limiter settings for the model endpoints.
func RateLimitConfig(cfg *config.Config) middleware.RateLimitConfig {
	window := cfg.RateLimitWindow
	if window <= 0 {
		window = time.Minute
	}
	return middleware.RateLimitConfig{
		Window:    window,
		Limit:     cfg.RateLimitRequests,
		KeyPrefix: "ratelimit:model",
	}
}
