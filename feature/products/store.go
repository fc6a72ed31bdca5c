package products

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"catalog-sync/core/reconcile"

	"gorm.io/gorm"
)

// Store runs product writes inside one transaction per call.
type Store interface {
	WithinTx(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the set of product operations available inside a transaction.
type Tx interface {
	// FindBySkus returns the stored products keyed by SKU.
	FindBySkus(ctx context.Context, skus []string) (map[string]Product, error)
	// InsertBatch inserts new products and fills in their IDs.
	InsertBatch(ctx context.Context, batch []Product) error
	// Update overwrites the columns selected by mode on the row with id.
	Update(ctx context.Context, id uint, p Product, mode UpdateMode) error
	// Savepoint marks a point the transaction can roll back to.
	Savepoint(name string) error
	// RollbackTo undoes everything after the named savepoint.
	RollbackTo(name string) error
}

// ListQuery selects a page of products.
type ListQuery struct {
	Prefix string
	Page   int
	Limit  int
}

// GormStore is the gorm implementation of the product store.
type GormStore struct {
	db *gorm.DB
}

var (
	_ Store           = (*GormStore)(nil)
	_ reconcile.Store = (*GormStore)(nil)
)

// NewGormStore creates a store on top of db.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the products table.
func (s *GormStore) Migrate(ctx context.Context) error {
	return s.db.WithContext(ctx).AutoMigrate(&Product{})
}

// WithinTx runs fn in a single database transaction.
// Returning an error from fn rolls the whole transaction back.
func (s *GormStore) WithinTx(ctx context.Context, fn func(tx Tx) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTx{db: tx})
	})
}

// FindBySku returns the product with the given SKU.
func (s *GormStore) FindBySku(ctx context.Context, sku string) (*Product, error) {
	var p Product
	err := s.db.WithContext(ctx).Where("sku = ?", sku).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns one page of products ordered by SKU plus the total match count.
func (s *GormStore) List(ctx context.Context, q ListQuery) ([]Product, int64, error) {
	base := s.db.WithContext(ctx).Model(&Product{})
	if q.Prefix != "" {
		base = base.Where("sku LIKE ? ESCAPE '!'", escapeLike(q.Prefix)+"%")
	}

	var total int64
	if err := base.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	var rows []Product
	err := base.Session(&gorm.Session{}).
		Order("sku").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list products: %w", err)
	}
	return rows, total, nil
}

// QueryStaleCandidates implements reconcile.Store.
func (s *GormStore) QueryStaleCandidates(ctx context.Context, prefix string, exclude []string) ([]reconcile.Candidate, error) {
	type row struct {
		ID  uint
		SKU string `gorm:"column:sku"`
	}

	query := s.db.WithContext(ctx).
		Model(&Product{}).
		Select("id", "sku").
		Where("sku LIKE ? ESCAPE '!'", escapeLike(prefix)+"%")
	if len(exclude) > 0 {
		query = query.Where("sku NOT IN ?", exclude)
	}

	var rows []row
	if err := query.Order("id").Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make([]reconcile.Candidate, len(rows))
	for i, r := range rows {
		out[i] = reconcile.Candidate{ID: r.ID, Key: r.SKU}
	}
	return out, nil
}

// DeleteByIDs implements reconcile.Store.
func (s *GormStore) DeleteByIDs(ctx context.Context, ids []uint) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var deleted int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id IN ?", ids).Delete(&Product{})
		deleted = res.RowsAffected
		return res.Error
	})
	return deleted, err
}

type gormTx struct {
	db *gorm.DB
}

func (t *gormTx) FindBySkus(ctx context.Context, skus []string) (map[string]Product, error) {
	out := make(map[string]Product, len(skus))
	if len(skus) == 0 {
		return out, nil
	}
	var rows []Product
	if err := t.db.WithContext(ctx).Where("sku IN ?", skus).Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, p := range rows {
		out[p.SKU] = p
	}
	return out, nil
}

func (t *gormTx) InsertBatch(ctx context.Context, batch []Product) error {
	if len(batch) == 0 {
		return nil
	}
	return t.db.WithContext(ctx).Create(&batch).Error
}

func (t *gormTx) Update(ctx context.Context, id uint, p Product, mode UpdateMode) error {
	p.ID = 0
	p.UpdatedAt = time.Now()
	return t.db.WithContext(ctx).
		Model(&Product{ID: id}).
		Select(mode.Columns()).
		UpdateColumns(p).Error
}

func (t *gormTx) Savepoint(name string) error {
	return t.db.SavePoint(name).Error
}

func (t *gormTx) RollbackTo(name string) error {
	return t.db.RollbackTo(name).Error
}

// escapeLike escapes LIKE wildcards using '!' as the escape character.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}
