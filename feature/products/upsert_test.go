package products_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"catalog-sync/core/budget"
	"catalog-sync/core/clock"
	"catalog-sync/feature/products"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingInvalidator struct{ calls int }

func (c *countingInvalidator) InvalidateAll() { c.calls++ }

func TestUpsert_CreatesThenUpdates(t *testing.T) {
	store := newTestStore(t)
	inv := &countingInvalidator{}
	up := products.NewUpserter(store, 2, inv, nil)
	ctx := context.Background()

	batch := []products.Product{
		product("P_A1", "One", "10"),
		product("P_A2", "Two", "20"),
		product("P_A3", "Three", "30"),
	}

	res, err := up.Upsert(ctx, batch, products.UpsertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 0, res.Updated)
	assert.Equal(t, 2, res.Batches)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 1, inv.calls)

	// Same batch again: no new rows, identical values.
	res, err = up.Upsert(ctx, batch, products.UpsertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 3, res.Updated)
	assert.Equal(t, 2, inv.calls)

	_, total, err := store.List(ctx, products.ListQuery{Prefix: "P_", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)

	p, err := store.FindBySku(ctx, "P_A2")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(20)))
}

func TestUpsert_DuplicateSkusInBatchKeepLast(t *testing.T) {
	store := newTestStore(t)
	up := products.NewUpserter(store, 50, nil, nil)

	res, err := up.Upsert(context.Background(), []products.Product{
		product("P_A1", "First", "1"),
		product("P_A1", "Second", "2"),
	}, products.UpsertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Created)

	p, err := store.FindBySku(context.Background(), "P_A1")
	require.NoError(t, err)
	assert.Equal(t, "Second", p.Name)
}

func TestUpsert_PreserveDescription(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	existing := product("P_A1", "Old name", "5")
	existing.Description = "hand written"
	seed(t, store, existing)

	incoming := product("P_A1", "New name", "6")
	incoming.Description = "upstream text"

	up := products.NewUpserter(store, 50, nil, nil)
	res, err := up.Upsert(ctx, []products.Product{incoming}, products.UpsertOptions{Mode: products.UpdatePreserveDescription})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Updated)

	p, err := store.FindBySku(ctx, "P_A1")
	require.NoError(t, err)
	assert.Equal(t, "New name", p.Name)
	assert.Equal(t, "hand written", p.Description)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(6)))
}

func TestUpsert_DescriptionsOnly(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seed(t, store, product("P_A1", "Name", "5"))

	incoming := product("P_A1", "Renamed", "99")
	incoming.Description = "long"
	incoming.ShortDescription = "short"

	up := products.NewUpserter(store, 50, nil, nil)
	res, err := up.Upsert(ctx, []products.Product{incoming, product("P_NEW", "New", "1")},
		products.UpsertOptions{Mode: products.UpdateDescriptionsOnly})
	require.NoError(t, err)
	assert.Equal(t, 0, res.Created)
	assert.Equal(t, 1, res.Updated)
	assert.Equal(t, 1, res.Skipped)

	p, err := store.FindBySku(ctx, "P_A1")
	require.NoError(t, err)
	assert.Equal(t, "Name", p.Name)
	assert.Equal(t, "long", p.Description)
	assert.Equal(t, "short", p.ShortDescription)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(5)))

	_, err = store.FindBySku(ctx, "P_NEW")
	assert.ErrorIs(t, err, products.ErrNotFound)
}

func TestUpsert_InvalidRecordDoesNotAbortSubBatch(t *testing.T) {
	store := newTestStore(t)
	up := products.NewUpserter(store, 50, nil, nil)

	res, err := up.Upsert(context.Background(), []products.Product{
		product("P_A1", "One", "1"),
		product("P_BAD", "Bad", "-3"),
		product("P_A2", "Two", "2"),
	}, products.UpsertOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "P_BAD", res.Errors[0].SKU)
}

func TestUpsert_BudgetTruncatesBetweenSubBatches(t *testing.T) {
	fake := clock.NewFake(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	b := budget.New(fake, time.Second)

	fs := newFakeStore()
	fs.afterCommit = func() { fake.Advance(2 * time.Second) }

	up := products.NewUpserter(fs, 2, nil, nil)
	res, err := up.Upsert(context.Background(), []products.Product{
		product("P_1", "1", "1"),
		product("P_2", "2", "1"),
		product("P_3", "3", "1"),
	}, products.UpsertOptions{Budget: b})
	require.NoError(t, err)
	assert.True(t, res.Truncated)
	assert.Equal(t, 2, res.Created)
	assert.Equal(t, 1, res.Batches)
}

func TestUpsert_BatchInsertFallsBackToSingleRows(t *testing.T) {
	fs := newFakeStore()
	fs.rejectInsert = "P_DUP"

	up := products.NewUpserter(fs, 50, nil, nil)
	res, err := up.Upsert(context.Background(), []products.Product{
		product("P_1", "1", "1"),
		product("P_DUP", "dup", "1"),
		product("P_2", "2", "1"),
	}, products.UpsertOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, res.Created)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "P_DUP", res.Errors[0].SKU)
	assert.ElementsMatch(t, []string{"P_1", "P_2"}, fs.committedSkus())
	assert.Contains(t, fs.rollbacks, "ins_0")
}

func TestUpsert_FatalSubBatchIsRolledBackAndReportedOnce(t *testing.T) {
	fs := newFakeStore()
	fs.failFind = "P_3"

	up := products.NewUpserter(fs, 2, nil, nil)
	res, err := up.Upsert(context.Background(), []products.Product{
		product("P_1", "1", "1"),
		product("P_2", "2", "1"),
		product("P_3", "3", "1"),
		product("P_4", "4", "1"),
		product("P_5", "5", "1"),
	}, products.UpsertOptions{})
	require.NoError(t, err)

	assert.Equal(t, 3, res.Created)
	assert.Equal(t, 2, res.Batches)
	require.Len(t, res.Errors, 1)
	assert.Empty(t, res.Errors[0].SKU)
	assert.Contains(t, res.Errors[0].Reason, "batch 2 (2 records)")
	assert.ElementsMatch(t, []string{"P_1", "P_2", "P_5"}, fs.committedSkus())
}

// fakeStore stages writes per transaction and applies them on commit.
type fakeStore struct {
	rows         map[string]products.Product
	nextID       uint
	rejectInsert string
	failFind     string
	rollbacks    []string
	afterCommit  func()
}

func newFakeStore() *fakeStore {
	return &fakeStore{rows: make(map[string]products.Product)}
}

func (s *fakeStore) committedSkus() []string {
	var out []string
	for k := range s.rows {
		out = append(out, k)
	}
	return out
}

func (s *fakeStore) WithinTx(ctx context.Context, fn func(tx products.Tx) error) error {
	tx := &fakeTx{store: s, savepoints: make(map[string]int)}
	if err := fn(tx); err != nil {
		return err
	}
	for _, p := range tx.staged {
		s.nextID++
		p.ID = s.nextID
		s.rows[p.SKU] = p
	}
	if s.afterCommit != nil {
		s.afterCommit()
	}
	return nil
}

type fakeTx struct {
	store      *fakeStore
	staged     []products.Product
	savepoints map[string]int
}

func (t *fakeTx) FindBySkus(_ context.Context, skus []string) (map[string]products.Product, error) {
	out := make(map[string]products.Product)
	for _, sku := range skus {
		if sku == t.store.failFind {
			return nil, errors.New("connection reset")
		}
		if p, ok := t.store.rows[sku]; ok {
			out[sku] = p
		}
	}
	return out, nil
}

func (t *fakeTx) InsertBatch(_ context.Context, batch []products.Product) error {
	for _, p := range batch {
		if p.SKU == t.store.rejectInsert {
			// A failed multi-row insert may leave partial rows behind.
			t.staged = append(t.staged, batch[0])
			return fmt.Errorf("duplicate entry %q", p.SKU)
		}
	}
	t.staged = append(t.staged, batch...)
	return nil
}

func (t *fakeTx) Update(_ context.Context, _ uint, p products.Product, _ products.UpdateMode) error {
	t.staged = append(t.staged, p)
	return nil
}

func (t *fakeTx) Savepoint(name string) error {
	t.savepoints[name] = len(t.staged)
	return nil
}

func (t *fakeTx) RollbackTo(name string) error {
	t.store.rollbacks = append(t.store.rollbacks, name)
	t.staged = t.staged[:t.savepoints[name]]
	return nil
}
