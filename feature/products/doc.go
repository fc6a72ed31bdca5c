// Package products owns the canonical product record and its store.
//
// The Product gorm model is both the persisted row and the in-memory
// canonical product built by the catalog transformer, so no mapping layer
// sits between transformation and persistence.
//
// # Components
//
//   - GormStore: gorm-backed store. It implements the transactional Store/Tx
//     contract used by the upsert engine and reconcile.Store used by the
//     stale-record engine.
//   - Upserter: chunked, transactional create-or-update with per-record
//     savepoints so one bad record does not abort its sub-batch.
//   - ListingCache: read-through TTL cache with singleflight protection for
//     product listings, invalidated once per sync run.
//   - Service / Handler / Feature: read-only HTTP surface.
//
// # HTTP Endpoints
//
//   - GET /products : Paginated listing (?prefix=&page=&limit=).
//   - GET /products/:sku : Single product by SKU.
package products
