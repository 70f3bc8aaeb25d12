/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the dividend projection server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load environment (.env) and parse command-line flags
  2. Initialize the logger
  3. Initialize SQLite store and seed reference data
  4. Create API handler and start the preset cache warmer
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS (override the environment):
  -port        HTTP server port       (PORT, default: 8080)
  -db          SQLite database path   (DATABASE_PATH, default: dividends.db)
               Use ":memory:" for in-memory database
  -tax-tables  Tax table YAML file    (TAX_TABLES_PATH, default: embedded)
  -log-level   debug, info, warn, error (LOG_LEVEL, default: info)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (SHUTDOWN_TIMEOUT)
  3. Stop the cache warmer
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/dividends.db"

  # Run with in-memory database and custom tax tables
  ./server -db=":memory:" -tax-tables=./tax_tables_2027.yaml

SEE ALSO:
  - config/config.go: Environment variables
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/dividend-engine/api"
	"github.com/warp/dividend-engine/config"
	"github.com/warp/dividend-engine/logger"
	"github.com/warp/dividend-engine/store/sqlite"
)

func main() {
	if err := run(); err != nil {
		logger.L.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Flags
	flag.StringVar(&cfg.Port, "port", cfg.Port, "HTTP server port")
	flag.StringVar(&cfg.DatabasePath, "db", cfg.DatabasePath, "SQLite database path")
	flag.StringVar(&cfg.TaxTablesPath, "tax-tables", cfg.TaxTablesPath, "Tax table YAML file (default: embedded tables)")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	logger.InitLogger(cfg.LogLevel)
	ctx := context.Background()

	// Initialize store
	store, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer store.Close()

	// Initialize handler and reference data
	handler := api.NewHandler(store, cfg.CacheTTL)
	if err := handler.SeedPresets(ctx); err != nil {
		return fmt.Errorf("failed to seed presets: %w", err)
	}
	tables, err := config.LoadTaxTables(cfg.TaxTablesPath)
	if err != nil {
		return err
	}
	if err := handler.SeedTaxTables(ctx, tables); err != nil {
		return err
	}

	warmer := api.NewPresetWarmer(handler, cfg.CacheTTL/2)
	warmer.Start()
	defer warmer.Stop()

	// Create router
	router := api.NewRouter(handler, api.RouterOptions{
		AllowedOrigins: cfg.AllowedOrigins,
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.L.Info("Server starting", "addr", "http://localhost:"+cfg.Port, "db", cfg.DatabasePath)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	logger.L.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.L.Info("Server stopped")
	return nil
}
