package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/pageza/fitcoach/backend/config"
	"github.com/pageza/fitcoach/backend/internal/logger"
	"github.com/pageza/fitcoach/backend/internal/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zlog := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	defer zlog.Sync()

	srv, err := server.New(context.Background(), cfg, zlog)
	if err != nil {
		zlog.Fatal("Failed to initialize server", zap.Error(err))
	}

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			zlog.Fatal("Server error", zap.Error(err))
		}
	case sig := <-quit:
		zlog.Info("Received signal", zap.String("signal", sig.String()))
	}

	zlog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zlog.Error("Server shutdown error", zap.Error(err))
		return
	}
	zlog.Info("Server stopped")
}
