package products_test

import (
	"context"
	"testing"

	"catalog-sync/core/database"
	"catalog-sync/feature/products"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *products.GormStore {
	t.Helper()

	db, err := database.Connect(database.Config{
		Driver: "sqlite",
		Name:   ":memory:",
	})
	require.NoError(t, err)

	store := products.NewGormStore(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func product(sku, name string, price string) products.Product {
	return products.Product{
		SKU:           sku,
		Name:          name,
		Price:         decimal.RequireFromString(price),
		Currency:      products.CurrencyLocal,
		StockQuantity: 1,
		StockStatus:   products.StockInStock,
		Categories:    []string{"Brand: Acme"},
		Images:        []string{"https://img.test/" + sku + ".jpg"},
	}
}
