// Package main is the entry point for the Yieldwise analysis service.
// It serves the property analysis API, keeps the comparables dataset
// fresh on a schedule and exposes Prometheus metrics.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/yieldwise/internal/config"
	"github.com/aristath/yieldwise/internal/di"
	"github.com/aristath/yieldwise/internal/server"
	"github.com/aristath/yieldwise/pkg/logger"
)

// main orchestrates startup:
// 1. Loads configuration from environment variables (.env supported)
// 2. Initializes logging
// 3. Wires all dependencies via the DI container
// 4. Imports the comparables dataset when a source is configured
// 5. Starts the scheduler and the HTTP server
// 6. Waits for a shutdown signal and shuts down gracefully
func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:   cfg.LogLevel,
		Pretty:  cfg.DevMode,
		Service: "yieldwise",
	})
	logger.SetGlobalLogger(log)

	log.Info().
		Str("data_dir", cfg.DataDir).
		Int("port", cfg.Port).
		Msg("Starting Yieldwise")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	container, jobs, err := di.Wire(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to wire dependencies")
	}
	defer container.Close()

	// A failed first import is not fatal: the previous dataset, if any,
	// is still in the database and analyses degrade to no_comparables.
	if jobs.ReloadComparables != nil && cfg.Comparables.ImportOnStart {
		if err := container.Scheduler.RunNow(jobs.ReloadComparables); err != nil {
			log.Warn().Err(err).Msg("Initial comparables import failed")
		}
	}

	container.Scheduler.Start()

	srv, err := server.New(server.Config{
		Log:       log,
		Config:    cfg,
		Container: container,
		Jobs:      jobs,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create server")
	}

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down...")
	cancel()

	// In-flight requests get up to 10 seconds to finish
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	container.Scheduler.Stop()
	log.Info().Msg("Server stopped")
}
