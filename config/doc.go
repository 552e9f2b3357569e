// Package config provides configuration loading and validation for restiva.
//
// The package handles YAML configuration files, environment variables, and
// CLI flags with automatic merging and validation using
// go-playground/validator.
//
// # Configuration Precedence
//
// Values are loaded in this order (later sources override earlier ones):
//
//  1. Default values
//  2. Configuration file(s) - multiple files merged left-to-right
//  3. Environment variables (RESTIVA_ prefix)
//  4. CLI flags
//
// # Usage
//
//	cfg, err := config.Load([]string{"config.yaml"}, cmd.Flags())
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Store in context for subcommands
//	ctx = config.WithContext(ctx, cfg)
//
//	// Retrieve later
//	cfg, err = config.FromContext(ctx)
//
// # Environment Variables
//
// All config keys map to environment variables with RESTIVA_ prefix:
//   - server.port → RESTIVA_SERVER_PORT
//   - storage.path → RESTIVA_STORAGE_PATH
//   - log.level → RESTIVA_LOG_LEVEL
//
// # Configuration Structure
//
// The Config struct contains:
//   - Server: listen port and connection timeouts
//   - Storage: repository storage root
//   - CORS: cross-origin resource sharing settings
//   - Log: logging level and output format
//
// # Validation
//
// Configuration is validated using struct tags:
//   - Port must be 1-65535
//   - Storage path must be set
//   - Log level must be debug, info, warn, or error
//   - Log format must be text or json
package config
