package main

import (
	"log"

	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/config"
	"github.com/pageza/fitcoach/backend/internal/database"
	"github.com/pageza/fitcoach/backend/internal/logger"
)

// migrate creates or updates the daily-log schema and exits. The API
// server runs the same migration at startup.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer zlog.Sync()

	db, err := database.New(cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if err := database.Migrate(db.DB); err != nil {
		zlog.Fatal("Migration failed", zap.Error(err))
	}
	zlog.Info("Migrations applied", zap.String("driver", cfg.DBDriver))
}
