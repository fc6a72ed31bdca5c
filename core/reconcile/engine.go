package reconcile

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"catalog-sync/core/budget"

	"go.uber.org/zap"
)

// DefaultBatchSize is used when the engine is built with a non-positive size.
const DefaultBatchSize = 50

// Engine deletes stale records in budget-guarded batches.
type Engine struct {
	store     Store
	batchSize int
	logger    *zap.Logger
}

// NewEngine creates a reconciliation engine.
func NewEngine(store Store, batchSize int, logger *zap.Logger) *Engine {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{store: store, batchSize: batchSize, logger: logger}
}

// DeleteStale removes every stored record whose key starts with prefix and
// is not in preserve. Batches run sequentially; the budget is checked before
// each one. A nil budget never expires.
func (e *Engine) DeleteStale(ctx context.Context, preserve []string, prefix string, b *budget.Budget) (Result, error) {
	var res Result

	keep := make(map[string]struct{}, len(preserve))
	for _, key := range preserve {
		if key != "" {
			keep[key] = struct{}{}
		}
	}
	if prefix == "" || len(keep) == 0 {
		return res, ErrInvalidReconciliationInput
	}

	exclude := make([]string, 0, len(keep))
	for key := range keep {
		exclude = append(exclude, key)
	}
	sort.Strings(exclude)

	candidates, err := e.store.QueryStaleCandidates(ctx, prefix, exclude)
	if err != nil {
		return res, fmt.Errorf("failed to query stale candidates: %w", err)
	}

	// The store query is advisory; the preserve set is enforced here.
	ids := make([]uint, 0, len(candidates))
	for _, c := range candidates {
		if !strings.HasPrefix(c.Key, prefix) {
			continue
		}
		if _, ok := keep[c.Key]; ok {
			continue
		}
		ids = append(ids, c.ID)
	}
	res.Candidates = len(ids)

	for start := 0; start < len(ids); start += e.batchSize {
		if b != nil && b.Exceeded() {
			res.Truncated = true
			e.logger.Warn("Reconciliation truncated by time budget",
				zap.Int("deleted", res.Deleted),
				zap.Int("remaining", len(ids)-start))
			break
		}

		end := start + e.batchSize
		if end > len(ids) {
			end = len(ids)
		}

		n, err := e.store.DeleteByIDs(ctx, ids[start:end])
		if err != nil {
			msg := fmt.Sprintf("delete batch %d (%d records): %v", start/e.batchSize+1, end-start, err)
			res.Failures = append(res.Failures, msg)
			e.logger.Error("Delete batch failed", zap.Error(err), zap.Int("size", end-start))
			continue
		}
		res.Deleted += int(n)
		res.Batches++
	}

	e.logger.Debug("Reconciliation finished",
		zap.String("prefix", prefix),
		zap.Int("candidates", res.Candidates),
		zap.Int("deleted", res.Deleted),
		zap.Bool("truncated", res.Truncated))

	return res, nil
}
