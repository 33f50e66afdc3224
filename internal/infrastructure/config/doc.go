// Package config handles loading and validating routerdock configuration.
//
// This package manages:
//   - Loading configuration from an optional YAML file
//   - Overriding with ROUTERDOCK_* environment variables
//   - Validation of required fields
//   - Default value handling
//
// Security Considerations:
//   - Sensitive values (the default poll password) should be set via
//     environment variables, typically through a .env file
//   - The config file should have restricted permissions (0600)
//   - The poll password is never persisted or logged
//
// Performance Characteristics:
//   - Configuration is loaded once at startup
//   - Treated as immutable for the process lifetime
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.ListenAddr())
package config
