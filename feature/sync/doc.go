// Package sync runs the catalog synchronization: one page per run, with a
// persisted cursor so a full catalog pass is spread over many short runs.
//
// A run moves through the phases fetching, transforming, upserting and
// reconciling, then ends completed or error. Only one run may be active at a
// time; the status row in sync_states doubles as the lock and is acquired
// with a conditional UPDATE. A running status older than the lock lease is
// considered abandoned and may be taken over.
//
// Reconciliation only runs in full mode, for primary pages, and only while
// enough of the time budget is left. It is page-scoped: records outside the
// current page that still carry the ownership prefix are deleted.
//
// # HTTP Endpoints
//
//   - POST /sync : Run one page now (?mode=full|descriptions), rate limited per caller.
//   - GET /sync/status : Persisted status, current phase and cursor.
package sync
