// Package integrity provides infrastructure health checks for the sync service.
//
// # Checks Provided
//
//   - Schema: Validates that the connected database has the tables and columns
//     of the gorm models the service persists (products, sync_states).
//   - Snapshots: Checks that the snapshot bucket exists and holds the first
//     archived catalog page the snapshot fallback starts from.
//
// # HTTP Endpoints
//
//   - GET /integrity : Runs all checks.
//   - GET /integrity/schema : Runs the schema check (supports ?fix=true).
//   - GET /integrity/snapshots : Runs the snapshot check (supports ?fix=true).
package integrity
