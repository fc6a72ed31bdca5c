// Package reconcile removes stale records from the product store.
//
// A record is stale when its key carries the ownership prefix of this sync
// source but is absent from the set of keys the current run saw upstream.
// Reconciliation is therefore a set difference computed store-side and
// applied in fixed-size delete batches.
//
// # Guarantees
//
//   - A key in the preserve set is never deleted, even when the store
//     returns it as a candidate (case-insensitive LIKE on some engines).
//   - An empty preserve set or prefix is rejected with
//     ErrInvalidReconciliationInput so a whole prefix class cannot be wiped.
//   - The time budget is consulted before every delete batch. When it is
//     exhausted the engine stops and reports Truncated instead of failing.
//
// # Usage Example
//
//	engine := reconcile.NewEngine(store, 50, logger)
//	res, err := engine.DeleteStale(ctx, pageSkus, "P_", runBudget)
package reconcile
