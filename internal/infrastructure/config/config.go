package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration structure for routerdock.
// All configuration is loaded from YAML and can be overridden by environment variables.
type Config struct {
	App      AppConfig      `yaml:"app"`
	Server   ServerConfig   `yaml:"server"`
	Mikrotik MikrotikConfig `yaml:"mikrotik"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// AppConfig contains application-wide settings.
type AppConfig struct {
	// Env is the deployment environment name (development, staging, production).
	Env string `yaml:"env"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host               string              `yaml:"host"`
	Port               int                 `yaml:"port"`
	Timeouts           ServerTimeoutConfig `yaml:"timeouts"`
	RateLimitPerMinute int                 `yaml:"rate_limit_per_minute"`
}

// ServerTimeoutConfig contains HTTP timeout settings in seconds.
type ServerTimeoutConfig struct {
	Read  int `yaml:"read"`
	Write int `yaml:"write"`
	Idle  int `yaml:"idle"`
}

// MikrotikConfig contains defaults for polling registered routers.
//
// DefaultUsername and DefaultPassword are used when a request does not
// supply credentials explicitly. The password is held in memory only: it
// is never persisted with a device record and never written to logs.
type MikrotikConfig struct {
	DefaultUsername string `yaml:"default_username"`
	DefaultPassword string `yaml:"default_password"`
	DefaultPort     int    `yaml:"default_port"`
	TimeoutSeconds  int    `yaml:"timeout_seconds"`
}

// StoreConfig contains device registry persistence settings.
type StoreConfig struct {
	// Driver selects the backing store: "memory", "file" or "sqlite".
	Driver string `yaml:"driver"`
	// Path is the store location: a JSON document for "file",
	// a database file for "sqlite". Unused for "memory".
	Path string `yaml:"path"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads configuration from a YAML file and applies environment variable overrides.
//
// The configuration loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// Environment variables follow the pattern: ROUTERDOCK_SECTION_KEY
// For example: ROUTERDOCK_STORE_PATH, ROUTERDOCK_MIKROTIK_PASSWORD
//
// Parameters:
//   - path: Path to the YAML configuration file; empty means environment-only
//
// Returns:
//   - *Config: Loaded and validated configuration
//   - error: If file cannot be read, parsed, or validation fails
func Load(path string) (*Config, error) {
	// Start with defaults
	cfg := defaultConfig()

	// Read and parse YAML file when one is given
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	// Apply environment variable overrides
	applyEnvOverrides(cfg)

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Env: "development",
		},
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
			Timeouts: ServerTimeoutConfig{
				Read:  30,
				Write: 30,
				Idle:  60,
			},
			RateLimitPerMinute: 100,
		},
		Mikrotik: MikrotikConfig{
			DefaultUsername: "admin",
			DefaultPort:     80,
			TimeoutSeconds:  10,
		},
		Store: StoreConfig{
			Driver: "file",
			Path:   "./data/devices.json",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables follow the pattern: ROUTERDOCK_SECTION_KEY
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("ROUTERDOCK_APP_ENV"); v != "" {
		cfg.App.Env = v
	}

	// Server
	if v := os.Getenv("ROUTERDOCK_SERVER_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := envInt("ROUTERDOCK_SERVER_PORT"); v != 0 {
		cfg.Server.Port = v
	}

	// Mikrotik polling defaults
	if v := os.Getenv("ROUTERDOCK_MIKROTIK_USERNAME"); v != "" {
		cfg.Mikrotik.DefaultUsername = v
	}
	if v := os.Getenv("ROUTERDOCK_MIKROTIK_PASSWORD"); v != "" {
		cfg.Mikrotik.DefaultPassword = v
	}
	if v := envInt("ROUTERDOCK_MIKROTIK_PORT"); v != 0 {
		cfg.Mikrotik.DefaultPort = v
	}
	if v := envInt("ROUTERDOCK_MIKROTIK_TIMEOUT"); v != 0 {
		cfg.Mikrotik.TimeoutSeconds = v
	}

	// Store
	if v := os.Getenv("ROUTERDOCK_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("ROUTERDOCK_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}

	// Logging
	if v := os.Getenv("ROUTERDOCK_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("ROUTERDOCK_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}

// envInt reads an integer environment variable, returning 0 when unset
// or unparseable.
func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

// Validate checks the configuration for errors.
//
// Returns:
//   - error: Description of validation failure, or nil if valid
func (c *Config) Validate() error {
	var errs []string

	// Server validation
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, "server.port must be between 1 and 65535")
	}
	if c.Server.RateLimitPerMinute < 0 {
		errs = append(errs, "server.rate_limit_per_minute must not be negative")
	}

	// Mikrotik validation
	if c.Mikrotik.DefaultUsername == "" {
		errs = append(errs, "mikrotik.default_username is required")
	}
	if c.Mikrotik.DefaultPassword == "" {
		errs = append(errs, "mikrotik.default_password is required (set ROUTERDOCK_MIKROTIK_PASSWORD environment variable)")
	}
	if c.Mikrotik.DefaultPort < 1 || c.Mikrotik.DefaultPort > 65535 {
		errs = append(errs, "mikrotik.default_port must be between 1 and 65535")
	}
	if c.Mikrotik.TimeoutSeconds < 1 {
		errs = append(errs, "mikrotik.timeout_seconds must be at least 1")
	}

	// Store validation
	switch c.Store.Driver {
	case "memory":
	case "file", "sqlite":
		if c.Store.Path == "" {
			errs = append(errs, fmt.Sprintf("store.path is required for the %q driver", c.Store.Driver))
		}
	default:
		errs = append(errs, "store.driver must be one of: memory, file, sqlite")
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// ListenAddr returns the host:port the HTTP server binds to.
func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// MikrotikTimeout returns the per-call device poll timeout as a Duration.
func (c *Config) MikrotikTimeout() time.Duration {
	return time.Duration(c.Mikrotik.TimeoutSeconds) * time.Second
}

// GetReadTimeout returns the HTTP read timeout as a Duration.
func (c *Config) GetReadTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Read) * time.Second
}

// GetWriteTimeout returns the HTTP write timeout as a Duration.
func (c *Config) GetWriteTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Write) * time.Second
}

// GetIdleTimeout returns the HTTP idle timeout as a Duration.
func (c *Config) GetIdleTimeout() time.Duration {
	return time.Duration(c.Server.Timeouts.Idle) * time.Second
}
