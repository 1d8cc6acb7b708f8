package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"landing-pages-backend/internal/app"
	"landing-pages-backend/internal/config"
	"landing-pages-backend/pkg/logger"
	"landing-pages-backend/pkg/validator"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup happens before exit.
func run() int {
	logger.Init()
	// Ensure any log file opened by the logger is closed on exit
	defer func() {
		if err := logger.Close(); err != nil {
			logger.Error(err, "Failed to close log file", nil)
		}
	}()

	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables", nil)
	}

	cfg := config.New()
	validator.Init()
	logger.SetLevel(cfg.LogLevel)
	if cfg.LogFile != "" {
		if err := logger.AttachFile(cfg.LogFile); err != nil {
			logger.Error(err, "Failed to open log file, logging to stdout only", map[string]interface{}{"file": cfg.LogFile})
		}
	}

	if err := cfg.Validate(); err != nil {
		logger.Error(err, "Invalid configuration", nil)
		return 1
	}

	logger.Info("Starting landing pages server", map[string]interface{}{"environment": cfg.Environment})

	application, err := app.New(cfg, app.Options{})
	if err != nil {
		logger.Error(err, "Failed to initialize application", nil)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		if err := application.Run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for either interrupt signal or server error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down server...", nil)
	case err := <-serverErr:
		logger.Error(err, "Server error occurred, initiating shutdown", nil)
		stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := application.Shutdown(shutdownCtx); err != nil {
		logger.Error(err, "Server forced to shutdown", nil)
		return 1
	}

	logger.Info("Server exited gracefully", nil)
	return 0
}
