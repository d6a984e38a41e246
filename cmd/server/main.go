/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the hours balance server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env and environment (config.Load), then command-line flags
  2. Validate configuration and configure logrus
  3. Initialize SQLite store (runs embedded migrations)
  4. Create API handler with the configured holiday calendar
  5. Start the carryover scheduler
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port    HTTP server port (env PORT, default: 8080)
  -db      SQLite database path (env DB_PATH, default: hours.db)
           Use ":memory:" for in-memory database

ENVIRONMENT:
  PORT, DB_PATH, HOLIDAY_COUNTRY, LOG_LEVEL, LOG_JSON,
  ROLLOVER_ENABLED, ROLLOVER_INTERVAL, CORS_ORIGINS
  See config/config.go.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection

EXAMPLES:
  ./server -db="./data/hours.db"
  HOLIDAY_COUNTRY=DE-BW LOG_JSON=true ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/scheduler.go: Carryover scheduler
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/warp/hours-engine/api"
	"github.com/warp/hours-engine/config"
	"github.com/warp/hours-engine/store/sqlite"
)

func main() {
	cfg := config.Load()

	// Flags
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.Parse()

	if err := cfg.Validate(); err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	cfg.ConfigureLogger()

	holidays, err := cfg.HolidayProvider()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load holiday calendar")
	}

	// Initialize store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logrus.WithError(err).Fatal("failed to initialize database")
	}
	defer store.Close()

	if version, dirty, err := store.SchemaVersion(); err == nil {
		logrus.WithFields(logrus.Fields{"db": cfg.DBPath, "schema": version, "dirty": dirty}).Info("database ready")
	}

	handler := api.NewHandler(store, holidays)
	router := api.NewRouter(handler, cfg.CORSOrigins)

	scheduler := api.NewCarryoverScheduler(store)
	scheduler.Enabled = cfg.RolloverEnabled
	scheduler.CheckInterval = cfg.RolloverInterval
	scheduler.Start()

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logrus.WithFields(logrus.Fields{
			"port":     cfg.Port,
			"holidays": cfg.HolidayCountry,
		}).Info("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Fatal("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("shutting down server")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Error("server forced to shutdown")
	}

	logrus.Info("server stopped")
}
