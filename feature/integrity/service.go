package integrity

import (
	"context"

	"catalog-sync/core/storage"
	"catalog-sync/feature/catalog"
	"catalog-sync/feature/integrity/checks"
	"catalog-sync/feature/products"
	catalogsync "catalog-sync/feature/sync"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// models are the tables the service owns.
var models = []any{&products.Product{}, &catalogsync.State{}}

// Service handles integrity checks.
type Service struct {
	client         storage.Client
	bucket         string
	snapshotPrefix string
	db             *gorm.DB
	logger         *zap.Logger
}

// NewService creates a new integrity service. client may be nil when object
// storage is disabled.
func NewService(client storage.Client, bucket, snapshotPrefix string, db *gorm.DB, logger *zap.Logger) *Service {
	return &Service{
		client:         client,
		bucket:         bucket,
		snapshotPrefix: snapshotPrefix,
		db:             db,
		logger:         logger,
	}
}

// CheckSchema validates the database tables against the models.
func (s *Service) CheckSchema() (*checks.SchemaReport, error) {
	return checks.CheckSchema(s.db, models...)
}

// FixSchema migrates missing tables and columns.
func (s *Service) FixSchema() error {
	return checks.FixSchema(s.db, models...)
}

// CheckSnapshots validates the snapshot bucket.
func (s *Service) CheckSnapshots(ctx context.Context) (*checks.SnapshotReport, error) {
	return checks.CheckSnapshots(ctx, s.client, s.bucket, catalog.SnapshotKey(s.snapshotPrefix, 0))
}

// FixSnapshots creates the snapshot bucket.
func (s *Service) FixSnapshots(ctx context.Context) error {
	return checks.FixSnapshots(ctx, s.client, s.bucket)
}
