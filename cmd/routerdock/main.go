// RouterDock - MikroTik Router Registry
//
// This is the main entry point for the routerdock service. RouterDock
// keeps a catalogue of MikroTik routers and polls them over the
// RouterOS REST API on demand:
//   - Registering a router performs its first poll
//   - Refreshing re-polls and updates the stored snapshot
//   - Records live in a pluggable store (memory, JSON file, SQLite)
//
// The service exposes a JSON API and an embedded browser UI on one
// HTTP listener.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	_ "github.com/nerrad567/routerdock/migrations"

	"github.com/nerrad567/routerdock/internal/api"
	"github.com/nerrad567/routerdock/internal/device"
	"github.com/nerrad567/routerdock/internal/infrastructure/config"
	"github.com/nerrad567/routerdock/internal/infrastructure/database"
	"github.com/nerrad567/routerdock/internal/infrastructure/logging"
	"github.com/nerrad567/routerdock/internal/mikrotik"
	"github.com/nerrad567/routerdock/internal/registration"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

// configFlag overrides both ROUTERDOCK_CONFIG and the default path.
var configFlag = flag.String("config", "", "path to the configuration file")

func main() {
	flag.Parse()

	// Create a context that cancels on interrupt signals (Ctrl+C, SIGTERM)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for testability.
// Returning an error allows main to handle exit codes consistently.
//
// Parameters:
//   - ctx: Context for cancellation and shutdown signals
//
// Returns:
//   - error: nil on clean shutdown, or error describing failure
func run(ctx context.Context) error {
	// A .env file feeds the ROUTERDOCK_* overrides in development.
	_ = godotenv.Load()

	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting routerdock",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	// Load configuration
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath, "env", cfg.App.Env)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)
	log.Info("logger initialised",
		"level", cfg.Logging.Level,
		"format", cfg.Logging.Format,
	)

	// Open the device store selected by config
	var store device.Store
	var db *database.DB
	switch cfg.Store.Driver {
	case "memory":
		store = device.NewMemoryStore()
		log.Info("device store ready", "driver", "memory")

	case "file":
		fileStore, storeErr := device.NewFileStore(cfg.Store.Path)
		if storeErr != nil {
			return fmt.Errorf("opening file store: %w", storeErr)
		}
		store = fileStore
		log.Info("device store ready", "driver", "file", "path", cfg.Store.Path)

	case "sqlite":
		db, err = database.Open(cfg.Store.Path)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer func() {
			log.Info("closing database")
			if closeErr := db.Close(); closeErr != nil {
				log.Error("error closing database", "error", closeErr)
			}
		}()

		if migrateErr := db.Migrate(ctx); migrateErr != nil {
			return fmt.Errorf("running migrations: %w", migrateErr)
		}
		log.Info("database migrations complete")

		store = device.NewSQLiteStore(db.DB)
		log.Info("device store ready", "driver", "sqlite", "path", cfg.Store.Path)

	default:
		return fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	// Initialise device registry
	registry := device.NewRegistry(store)
	registry.SetLogger(log)

	records, err := registry.ListDevices(ctx)
	if err != nil {
		return fmt.Errorf("loading device registry: %w", err)
	}
	log.Info("device registry initialised", "devices", len(records))

	// Initialise router client and registration service
	client := mikrotik.NewClient(cfg.MikrotikTimeout())
	client.SetLogger(log)

	service := registration.NewService(registry, client, registration.Defaults{
		Username: cfg.Mikrotik.DefaultUsername,
		Password: cfg.Mikrotik.DefaultPassword,
		Port:     cfg.Mikrotik.DefaultPort,
	})
	service.SetLogger(log)

	// Start the API server
	apiServer, err := api.New(api.Deps{
		Config:  cfg,
		Logger:  log,
		Service: service,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}
	if startErr := apiServer.Start(ctx); startErr != nil {
		return fmt.Errorf("starting API server: %w", startErr)
	}
	defer func() {
		log.Info("stopping API server")
		if closeErr := apiServer.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()
	log.Info("API server started", "address", cfg.ListenAddr())

	// Verify everything came up healthy
	if err := healthCheck(ctx, db, apiServer); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	log.Info("all health checks passed")

	log.Info("initialisation complete, waiting for shutdown signal")

	// Wait for shutdown signal
	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls will run in reverse order:
	// 1. API server
	// 2. Database (sqlite driver only)

	log.Info("routerdock stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// The -config flag wins, then the ROUTERDOCK_CONFIG environment
// variable, then the default path when it exists. An empty path makes
// Load fall back to built-in defaults plus environment overrides, so
// the binary runs without a config file at all.
func getConfigPath() string {
	if *configFlag != "" {
		return *configFlag
	}
	if path := os.Getenv("ROUTERDOCK_CONFIG"); path != "" {
		return path
	}
	if _, err := os.Stat(defaultConfigPath); err == nil {
		return defaultConfigPath
	}
	return ""
}

// healthCheck verifies the infrastructure pieces are healthy.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - db: Database connection to check (nil unless the sqlite driver is active)
//   - apiServer: API server to check
//
// Returns:
//   - error: First health check failure, or nil if all healthy
func healthCheck(ctx context.Context, db *database.DB, apiServer *api.Server) error {
	if db != nil {
		if err := db.HealthCheck(ctx); err != nil {
			return fmt.Errorf("database: %w", err)
		}
	}

	if err := apiServer.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}

	return nil
}
