package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/config"
	"github.com/pageza/fitcoach/backend/internal/api"
	"github.com/pageza/fitcoach/backend/internal/database"
	"github.com/pageza/fitcoach/backend/internal/metrics"
	"github.com/pageza/fitcoach/backend/internal/middleware"
	"github.com/pageza/fitcoach/backend/internal/router"
	"github.com/pageza/fitcoach/backend/internal/service"
)

// Server represents the HTTP server
type Server struct {
	cfg    *config.Config
	router *gin.Engine
	http   *http.Server
	db     *database.DB
	redis  *redis.Client
	logger *zap.Logger
}

// New connects every dependency named by cfg and assembles the router.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	db, err := database.New(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db.DB); err != nil {
		db.Close()
		return nil, err
	}

	// Redis is optional; a configured but unreachable server is fatal.
	redisClient, err := database.NewRedisClient(ctx, cfg, logger)
	if err != nil {
		db.Close()
		return nil, err
	}

	s3Cfg, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		closeAll(db, redisClient)
		return nil, err
	}

	srv, err := assemble(cfg, logger, db, redisClient, s3Cfg)
	if err != nil {
		closeAll(db, redisClient)
		return nil, err
	}
	return srv, nil
}

// assemble builds services, handlers and the router from connected
// dependencies. redisClient and s3Cfg may be nil.
func assemble(cfg *config.Config, logger *zap.Logger, db *database.DB, redisClient *redis.Client, s3Cfg *config.S3Config) (*Server, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m := metrics.New(registry)

	gemini, err := service.NewGeminiClient(service.GeminiConfig{
		APIKey:  cfg.GeminiAPIKey,
		BaseURL: cfg.GeminiBaseURL,
		Model:   cfg.GeminiModel,
		Timeout: cfg.GeminiTimeout,
	}, logger)
	if err != nil {
		return nil, err
	}

	checks := map[string]api.HealthCheck{"database": db.HealthCheck}

	var (
		cache   service.ResultCache
		limiter middleware.Limiter
	)
	limitCfg := router.RateLimitConfig(cfg)
	if redisClient != nil {
		cache = service.NewRedisResultCache(redisClient, cfg.CacheTTL)
		checks["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
		if cfg.RateLimitRequests > 0 {
			limiter = middleware.NewRateLimiter(redisClient, limitCfg)
		}
	} else if cfg.RateLimitRequests > 0 {
		limiter = middleware.NewLocalRateLimiter(limitCfg)
	}

	var archive service.ImageArchiver
	if s3Cfg != nil {
		archive = service.NewS3Archiver(s3Cfg)
		checks["storage"] = s3Cfg.HeadBucket
		logger.Info("archiving analyzed images", zap.String("bucket", s3Cfg.BucketName))
	}

	handlers := api.Handlers{
		Analysis: api.NewAnalysisHandler(service.NewAnalysisService(gemini, cache, archive, m, logger), logger),
		Chat:     api.NewChatHandler(service.NewChatService(gemini, cfg.GeminiChatModel, m, logger), logger),
		Diet:     api.NewDietHandler(service.NewDietService()),
		Daily:    api.NewDailyLogHandler(service.NewDailyLogService(service.NewGormDailyLogRepository(db.DB), cfg.DailyCalorieTarget, logger), logger),
		Profile:  api.NewProfileHandler(service.NewProfileService(service.NewGormProfileRepository(db.DB), logger), logger),
		Health:   api.NewHealthHandler(checks),
	}

	engine := router.SetupRouter(router.Dependencies{
		Config:   cfg,
		Logger:   logger,
		Metrics:  m,
		Limiter:  limiter,
		Handlers: handlers,
	})

	return &Server{
		cfg:    cfg,
		router: engine,
		db:     db,
		redis:  redisClient,
		logger: logger,
		http: &http.Server{
			Addr:    cfg.Addr(),
			Handler: engine,
		},
	}, nil
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start listens until the server is shut down. It returns nil after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting server", zap.String("addr", s.http.Addr), zap.String("environment", string(s.cfg.Environment)))
	if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and releases connections.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	closeAll(s.db, s.redis)
	return err
}

func closeAll(db *database.DB, redisClient *redis.Client) {
	if redisClient != nil {
		redisClient.Close()
	}
	if db != nil {
		db.Close()
	}
}
