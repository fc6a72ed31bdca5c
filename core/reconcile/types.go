package reconcile

import (
	"context"
	"errors"
)

// ErrInvalidReconciliationInput is returned for an empty preserve set or prefix.
var ErrInvalidReconciliationInput = errors.New("invalid reconciliation input: preserve set and prefix are required")

// Candidate is a stored record that may be stale.
type Candidate struct {
	// ID is the store primary key used for deletion.
	ID uint

	// Key is the ownership key (the product SKU).
	Key string
}

// Store is the storage contract the engine needs.
type Store interface {
	// QueryStaleCandidates returns records whose key starts with prefix and
	// is not listed in exclude.
	QueryStaleCandidates(ctx context.Context, prefix string, exclude []string) ([]Candidate, error)

	// DeleteByIDs deletes the given records in one transaction and returns
	// the number of rows removed.
	DeleteByIDs(ctx context.Context, ids []uint) (int64, error)
}

// Result summarizes one DeleteStale call.
type Result struct {
	// Candidates is the number of stale records found after filtering.
	Candidates int `json:"candidates"`

	// Deleted is the number of records actually removed.
	Deleted int `json:"deleted"`

	// Batches is the number of delete batches that committed.
	Batches int `json:"batches"`

	// Truncated is set when the budget stopped the engine early.
	Truncated bool `json:"truncated"`

	// Failures holds one aggregate message per failed delete batch.
	Failures []string `json:"failures,omitempty"`
}
