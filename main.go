package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/giygas/prescriptions-api/config"
	"github.com/giygas/prescriptions-api/data"
	"github.com/giygas/prescriptions-api/formulary"
	"github.com/giygas/prescriptions-api/handlers"
	"github.com/giygas/prescriptions-api/health"
	"github.com/giygas/prescriptions-api/logging"
	"github.com/giygas/prescriptions-api/matcher"
	"github.com/giygas/prescriptions-api/ocr"
	"github.com/giygas/prescriptions-api/scheduler"
	"github.com/giygas/prescriptions-api/server"
	"github.com/giygas/prescriptions-api/storage"
	"github.com/giygas/prescriptions-api/validation"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env if present; environment variables take precedence
	if err := godotenv.Load(); err != nil {
		logging.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	logging.InitLoggerWithOptions("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	validator := validation.NewRequestValidator()

	sched := scheduler.NewScheduler(dataContainer, formulary.NewLoader(), validator, cfg.FormularyPath)
	if err := sched.Start(); err != nil {
		logging.Error("Failed to start scheduler", "error", err)
		os.Exit(1)
	}
	defer sched.Stop()

	handler := handlers.NewHTTPHandler(
		dataContainer,
		matcher.NewService(),
		ocr.NewTesseractClient(cfg.OCRLanguage),
		storage.NewFileStore(cfg.StorageDir),
		validator,
		health.NewHealthChecker(dataContainer, cfg.FormularyPath != ""),
	)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Start the server in a goroutine
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	// Create a context with timeout for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}
