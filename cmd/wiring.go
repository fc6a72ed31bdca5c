package cmd

import (
	"context"
	"fmt"

	"catalog-sync/core/clock"
	"catalog-sync/core/config"
	"catalog-sync/core/events"
	"catalog-sync/core/reconcile"
	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/products"
	catalogsync "catalog-sync/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// migrate creates or updates every table the service owns.
func migrate(ctx context.Context, db *gorm.DB) error {
	if err := products.NewGormStore(db).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate products: %w", err)
	}
	if err := catalogsync.NewGormStateStore(db).Migrate(ctx); err != nil {
		return fmt.Errorf("failed to migrate sync state: %w", err)
	}
	return nil
}

// newStorage connects to object storage when it is enabled. A nil client
// means snapshots are neither written nor read.
func newStorage(ctx context.Context, cfg *config.Config, logg *zap.Logger) storage.Client {
	if !cfg.Storage.Enabled {
		return nil
	}

	client, err := storage.NewClient(cfg.Storage)
	if err != nil {
		logg.Warn("Object storage unavailable, snapshots disabled", zap.Error(err))
		return nil
	}
	if err := storage.EnsureBucket(ctx, client, cfg.Storage.Bucket); err != nil {
		logg.Warn("Snapshot bucket unavailable, snapshots disabled", zap.Error(err))
		return nil
	}
	return client
}

// newFetcher builds the catalog fetcher: the upstream HTTP source plus the
// configured fallback and, when storage is available, the page archiver.
func newFetcher(cfg *config.Config, store storage.Client, logg *zap.Logger) *catalog.Fetcher {
	primary := catalog.NewHTTPSource(cfg.Catalog)

	var fallback catalog.Source
	switch cfg.Catalog.Fallback {
	case catalog.FallbackGenerator:
		logg.Warn("Generator fallback enabled, demo records will be written to the product store",
			zap.String("sku_prefix", cfg.Pricing.SkuPrefix))
		fallback = catalog.NewGeneratorSource(cfg.Catalog.GeneratorSize)
	case catalog.FallbackSnapshot:
		if store != nil {
			fallback = catalog.NewSnapshotSource(store, cfg.Storage.Bucket, cfg.Catalog.SnapshotPrefix)
		} else {
			logg.Warn("Snapshot fallback configured without object storage, fallback disabled")
		}
	case catalog.FallbackNone, "":
	default:
		logg.Warn("Unknown catalog fallback, fallback disabled", zap.String("fallback", cfg.Catalog.Fallback))
	}

	var archiver catalog.Archiver
	if store != nil && cfg.Catalog.ArchivePages {
		archiver = catalog.NewSnapshotWriter(store, cfg.Storage.Bucket, cfg.Catalog.SnapshotPrefix)
	}

	return catalog.NewFetcher(primary, fallback, archiver, cfg.Catalog.MaxPageSize, logg.Named("catalog"))
}

// newOrchestrator wires the sync pipeline. store and invalidator may be nil.
func newOrchestrator(cfg *config.Config, db *gorm.DB, store storage.Client, invalidator products.Invalidator, logg *zap.Logger) *catalogsync.Orchestrator {
	productStore := products.NewGormStore(db)

	return catalogsync.NewOrchestrator(catalogsync.Deps{
		Fetcher:     newFetcher(cfg, store, logg),
		Upserter:    products.NewUpserter(productStore, cfg.Sync.BatchSize, invalidator, logg.Named("upsert")),
		Reconciler:  reconcile.NewEngine(productStore, cfg.Sync.BatchSize, logg.Named("reconcile")),
		State:       catalogsync.NewGormStateStore(db),
		Invalidator: invalidator,
		Pricing:     cfg.Pricing,
		Config:      cfg.Sync,
		Clock:       clock.System{},
		Events:      events.NewZapSink(logg.Named("events")),
		Logger:      logg.Named("sync"),
	})
}
