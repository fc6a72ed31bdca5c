// Package config provides configuration management for the catalog sync service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file. Defaults come from `default` struct tags.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, request timeout)
//   - Database: driver (mysql, postgres, sqlite) and connection details
//   - Storage: S3/MinIO credentials and the snapshot bucket
//   - Log: Logging level and format
//   - Catalog: upstream endpoint, credentials and fallback source
//   - Pricing: SKU prefix, currency selection and markup overrides
//   - Products: listing cache TTL
//   - Sync: page and batch sizes, time ceiling, lock lease
//   - RateLimit: trigger window and per-action thresholds
//
// Nested keys map to environment variables by replacing dots with
// underscores, e.g. SYNC_BATCH_SIZE sets sync.batch_size.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Sync.PageSize)
package config
