package products

import (
	"context"
	"time"

	"catalog-sync/core/clock"

	"go.uber.org/zap"
)

// Service handles product read operations.
type Service struct {
	store    *GormStore
	cache    *ListingCache
	maxLimit int
	logger   *zap.Logger
}

// NewService creates a new products service with its listing cache.
func NewService(store *GormStore, cfg Config, logger *zap.Logger) *Service {
	s := &Service{
		store:    store,
		maxLimit: cfg.MaxListLimit,
		logger:   logger,
	}
	if s.maxLimit <= 0 {
		s.maxLimit = 200
	}
	s.cache = NewListingCache(s.loadPage, time.Duration(cfg.CacheTTLSeconds)*time.Second, clock.System{})
	return s
}

// Cache returns the listing cache so writers can invalidate it.
func (s *Service) Cache() *ListingCache {
	return s.cache
}

// List returns one page of products, served from the cache when fresh.
func (s *Service) List(ctx context.Context, q ListQuery) (*ListResult, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = 50
	}
	if q.Limit > s.maxLimit {
		q.Limit = s.maxLimit
	}
	return s.cache.Get(ctx, q)
}

// Get returns a single product by SKU.
func (s *Service) Get(ctx context.Context, sku string) (*Product, error) {
	return s.store.FindBySku(ctx, sku)
}

func (s *Service) loadPage(ctx context.Context, q ListQuery) (*ListResult, error) {
	items, total, err := s.store.List(ctx, q)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Loaded product listing",
		zap.String("prefix", q.Prefix),
		zap.Int("page", q.Page),
		zap.Int64("total", total))
	return &ListResult{Items: items, Total: total, Page: q.Page, Limit: q.Limit}, nil
}
