// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// MySQL, PostgreSQL or SQLite connections based on the application's configuration.
// SQLite is mainly used in tests through ":memory:" databases.
//
// # Connect
//
// Connect builds the driver-specific DSN, applies connection pool settings and
// pings the database with the configured timeout before returning.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
