// Package catalog reads the upstream product catalog and turns its records
// into canonical products.
//
// # Components
//
//   - Source: one page of raw records from somewhere. HTTPSource is the
//     upstream API; GeneratorSource is a deterministic local catalog and
//     SnapshotSource replays pages archived in object storage.
//   - Fetcher: validates the cursor against the upstream page-size limit,
//     calls the primary source and substitutes the fallback source exactly
//     once when the primary is unreachable or returns nothing. It also
//     computes the next cursor, resetting to offset 0 on exhaustion.
//   - SnapshotWriter: archives successful primary pages so the snapshot
//     fallback tracks the real catalog.
//   - Transform: maps one RawRecord to a products.Product (SKU, price with
//     markup, stock status, categories, images, short description).
//
// # Fallback
//
// Pages served by a fallback source carry Page.Source == SourceFallback.
// Callers must not use them to drive deletion.
package catalog
