package sync_test

import (
	"context"
	"testing"
	"time"

	"catalog-sync/core/clock"
	"catalog-sync/core/database"
	"catalog-sync/core/reconcile"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/products"
	catalogsync "catalog-sync/feature/sync"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type env struct {
	products *products.GormStore
	state    *catalogsync.GormStateStore
	clock    *clock.Fake
	pricing  catalog.PricingConfig
	cfg      catalogsync.Config
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)

	e := &env{
		products: products.NewGormStore(db),
		state:    catalogsync.NewGormStateStore(db),
		clock:    clock.NewFake(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)),
		pricing:  catalog.PricingConfig{SkuPrefix: "P_"},
		cfg: catalogsync.Config{
			PageSize:                100,
			BatchSize:               50,
			TimeCeilingMs:           25000,
			ReconcileMinRemainingMs: 3000,
			MaxReportedErrors:       10,
			LockTTLSeconds:          900,
		},
	}
	require.NoError(t, e.products.Migrate(context.Background()))
	require.NoError(t, e.state.Migrate(context.Background()))
	return e
}

func (e *env) orchestrator(primary, fallback catalog.Source) *catalogsync.Orchestrator {
	return e.orchestratorWith(primary, fallback, nil)
}

func (e *env) orchestratorWith(primary, fallback catalog.Source, inv products.Invalidator) *catalogsync.Orchestrator {
	return catalogsync.NewOrchestrator(catalogsync.Deps{
		Fetcher:     catalog.NewFetcher(primary, fallback, nil, 100, zap.NewNop()),
		Upserter:    products.NewUpserter(e.products, e.cfg.BatchSize, inv, zap.NewNop()),
		Reconciler:  reconcile.NewEngine(e.products, e.cfg.BatchSize, zap.NewNop()),
		State:       e.state,
		Invalidator: inv,
		Pricing:     e.pricing,
		Config:      e.cfg,
		Clock:       e.clock,
		Logger:      zap.NewNop(),
	})
}

func (e *env) seedProducts(t *testing.T, skus ...string) {
	t.Helper()
	batch := make([]products.Product, len(skus))
	for i, sku := range skus {
		batch[i] = products.Product{
			SKU:         sku,
			Name:        "Seeded " + sku,
			Price:       decimal.NewFromInt(1),
			Currency:    products.CurrencyLocal,
			StockStatus: products.StockOutOfStock,
		}
	}
	err := e.products.WithinTx(context.Background(), func(tx products.Tx) error {
		return tx.InsertBatch(context.Background(), batch)
	})
	require.NoError(t, err)
}

func (e *env) skus(t *testing.T) []string {
	t.Helper()
	items, _, err := e.products.List(context.Background(), products.ListQuery{Page: 1, Limit: 1000})
	require.NoError(t, err)
	out := make([]string, len(items))
	for i, p := range items {
		out[i] = p.SKU
	}
	return out
}

// setCursor persists a cursor as if a previous run had stopped there.
func (e *env) setCursor(t *testing.T, offset int) {
	t.Helper()
	ctx := context.Background()
	_, err := e.state.Acquire(ctx, "previous", e.clock.Now(), time.Minute)
	require.NoError(t, err)
	require.NoError(t, e.state.Release(ctx, "previous", catalogsync.StatusCompleted, catalog.Cursor{Offset: offset, PageSize: 100}, "", e.clock.Now()))
}

// pagedSource serves fixed pages by offset, or fails with err.
type pagedSource struct {
	pages map[int]catalog.SourcePage
	err   error
	calls []int
}

func (s *pagedSource) Name() string { return "upstream" }

func (s *pagedSource) FetchPage(_ context.Context, offset, _ int) (catalog.SourcePage, error) {
	s.calls = append(s.calls, offset)
	if s.err != nil {
		return catalog.SourcePage{}, s.err
	}
	return s.pages[offset], nil
}

func raw(code, name, price string) catalog.RawRecord {
	return catalog.RawRecord{
		Code:       code,
		Name:       name,
		PriceLocal: decimal.RequireFromString(price),
		Quantity:   2,
		Brand:      "Acme",
		Images:     []string{"https://img.test/" + code + ".jpg"},
	}
}
