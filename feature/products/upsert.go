package products

import (
	"context"
	"fmt"

	"catalog-sync/core/budget"

	"go.uber.org/zap"
)

// DefaultBatchSize is the sub-batch size used when none is configured.
const DefaultBatchSize = 50

// RecordError describes one record that could not be written.
// SKU is empty for aggregate sub-batch failures.
type RecordError struct {
	SKU    string `json:"sku"`
	Reason string `json:"reason"`
}

// UpsertOptions controls one Upsert call.
type UpsertOptions struct {
	// Mode selects the columns overwritten on existing products.
	Mode UpdateMode

	// Budget is checked before each sub-batch. Nil never expires.
	Budget *budget.Budget
}

// UpsertResult summarizes one Upsert call.
type UpsertResult struct {
	Created int
	Updated int
	// Skipped counts records that were neither created nor updated on
	// purpose, e.g. unknown SKUs in descriptions-only mode.
	Skipped int
	// Batches counts committed sub-batches.
	Batches   int
	Truncated bool
	Errors    []RecordError
}

// Invalidator drops cached product listings.
type Invalidator interface {
	InvalidateAll()
}

// Upserter creates or updates canonical products in chunked transactions.
type Upserter struct {
	store       Store
	batchSize   int
	invalidator Invalidator
	logger      *zap.Logger
}

// NewUpserter creates an upsert engine. invalidator may be nil.
func NewUpserter(store Store, batchSize int, invalidator Invalidator, logger *zap.Logger) *Upserter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Upserter{
		store:       store,
		batchSize:   batchSize,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Upsert writes batch to the store. Sub-batches run sequentially, each in
// one transaction. A record that fails is rolled back to its savepoint and
// reported in Errors; a sub-batch that fails as a whole is rolled back and
// reported as a single aggregate error. Neither stops the remaining
// sub-batches. The listing cache is invalidated once at the end when
// anything was written.
func (u *Upserter) Upsert(ctx context.Context, batch []Product, opts UpsertOptions) (UpsertResult, error) {
	var res UpsertResult

	records, dupes := dedupeBySku(batch)
	res.Errors = append(res.Errors, dupes...)

	for start := 0; start < len(records); start += u.batchSize {
		if opts.Budget != nil && opts.Budget.Exceeded() {
			res.Truncated = true
			u.logger.Warn("Upsert truncated by time budget",
				zap.Int("written", res.Created+res.Updated),
				zap.Int("remaining", len(records)-start))
			break
		}

		end := start + u.batchSize
		if end > len(records) {
			end = len(records)
		}
		index := start / u.batchSize

		out, err := u.upsertChunk(ctx, index, records[start:end], opts.Mode)
		if err != nil {
			u.logger.Error("Upsert sub-batch rolled back",
				zap.Int("batch", index+1),
				zap.Int("size", end-start),
				zap.Error(err))
			res.Errors = append(res.Errors, RecordError{
				Reason: fmt.Sprintf("batch %d (%d records) rolled back: %v", index+1, end-start, err),
			})
			continue
		}

		res.Created += out.created
		res.Updated += out.updated
		res.Skipped += out.skipped
		res.Errors = append(res.Errors, out.errors...)
		res.Batches++
	}

	if u.invalidator != nil && res.Created+res.Updated > 0 {
		u.invalidator.InvalidateAll()
	}

	return res, nil
}

type chunkOutcome struct {
	created int
	updated int
	skipped int
	errors  []RecordError
}

func (u *Upserter) upsertChunk(ctx context.Context, index int, chunk []Product, mode UpdateMode) (chunkOutcome, error) {
	var out chunkOutcome

	err := u.store.WithinTx(ctx, func(tx Tx) error {
		// Counts only survive a committed transaction.
		out = chunkOutcome{}

		skus := make([]string, len(chunk))
		for i := range chunk {
			skus[i] = chunk[i].SKU
		}

		existing, err := tx.FindBySkus(ctx, skus)
		if err != nil {
			return fmt.Errorf("failed to resolve existing skus: %w", err)
		}

		var inserts []Product
		for i, p := range chunk {
			if err := p.Validate(); err != nil {
				out.errors = append(out.errors, RecordError{SKU: p.SKU, Reason: err.Error()})
				continue
			}

			current, found := existing[p.SKU]
			if !found {
				if mode == UpdateDescriptionsOnly {
					out.skipped++
					continue
				}
				inserts = append(inserts, p)
				continue
			}

			sp := fmt.Sprintf("upd_%d_%d", index, i)
			if err := tx.Savepoint(sp); err != nil {
				return fmt.Errorf("failed to create savepoint: %w", err)
			}
			if err := tx.Update(ctx, current.ID, p, mode); err != nil {
				if rbErr := tx.RollbackTo(sp); rbErr != nil {
					return fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
				}
				out.errors = append(out.errors, RecordError{SKU: p.SKU, Reason: err.Error()})
				continue
			}
			out.updated++
		}

		created, insertErrs, err := insertWithFallback(ctx, tx, index, inserts)
		if err != nil {
			return err
		}
		out.created += created
		out.errors = append(out.errors, insertErrs...)
		return nil
	})
	if err != nil {
		return chunkOutcome{}, err
	}

	return out, nil
}

// insertWithFallback tries one multi-row insert; if it fails the batch is
// rolled back to its savepoint and the rows are inserted one by one so a
// single bad row only costs itself.
func insertWithFallback(ctx context.Context, tx Tx, index int, inserts []Product) (int, []RecordError, error) {
	if len(inserts) == 0 {
		return 0, nil, nil
	}

	batchSp := fmt.Sprintf("ins_%d", index)
	if err := tx.Savepoint(batchSp); err != nil {
		return 0, nil, fmt.Errorf("failed to create savepoint: %w", err)
	}
	if err := tx.InsertBatch(ctx, inserts); err == nil {
		return len(inserts), nil, nil
	}
	if err := tx.RollbackTo(batchSp); err != nil {
		return 0, nil, fmt.Errorf("failed to roll back to savepoint: %w", err)
	}

	var (
		created int
		errs    []RecordError
	)
	for i := range inserts {
		inserts[i].ID = 0
		sp := fmt.Sprintf("ins_%d_%d", index, i)
		if err := tx.Savepoint(sp); err != nil {
			return 0, nil, fmt.Errorf("failed to create savepoint: %w", err)
		}
		if err := tx.InsertBatch(ctx, inserts[i:i+1]); err != nil {
			if rbErr := tx.RollbackTo(sp); rbErr != nil {
				return 0, nil, fmt.Errorf("failed to roll back to savepoint: %w", rbErr)
			}
			errs = append(errs, RecordError{SKU: inserts[i].SKU, Reason: err.Error()})
			continue
		}
		created++
	}
	return created, errs, nil
}

// dedupeBySku keeps the last occurrence of each SKU, preserving the order
// of first appearance. Records without a SKU are reported and dropped.
func dedupeBySku(batch []Product) ([]Product, []RecordError) {
	var errs []RecordError
	pos := make(map[string]int, len(batch))
	out := make([]Product, 0, len(batch))

	for _, p := range batch {
		if p.SKU == "" {
			errs = append(errs, RecordError{Reason: "record without sku"})
			continue
		}
		if i, ok := pos[p.SKU]; ok {
			out[i] = p
			continue
		}
		pos[p.SKU] = len(out)
		out = append(out, p)
	}
	return out, errs
}
