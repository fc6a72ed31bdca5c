package products_test

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"

	"catalog-sync/feature/products"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestApp(t *testing.T) (*fiber.App, *products.GormStore) {
	t.Helper()
	store := newTestStore(t)
	svc := products.NewService(store, products.Config{CacheTTLSeconds: 60, MaxListLimit: 2}, zap.NewNop())

	app := fiber.New()
	products.NewHandler(svc).RegisterRoutes(app)
	return app, store
}

func TestHandleListProducts(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store,
		product("P_A", "A", "1"),
		product("P_B", "B", "2"),
		product("P_C", "C", "3"),
	)

	resp, err := app.Test(httptest.NewRequest("GET", "/products?prefix=P_&limit=50", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	body, _ := io.ReadAll(resp.Body)
	var res products.ListResult
	require.NoError(t, json.Unmarshal(body, &res))
	assert.EqualValues(t, 3, res.Total)
	assert.Equal(t, 2, res.Limit)
	require.Len(t, res.Items, 2)
	assert.Equal(t, "P_A", res.Items[0].SKU)
	assert.Equal(t, "1", res.Items[0].Price.String())
}

func TestHandleGetProduct(t *testing.T) {
	app, store := newTestApp(t)
	seed(t, store, product("P_A", "A", "1.25"))

	resp, err := app.Test(httptest.NewRequest("GET", "/products/P_A", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var p products.Product
	body, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(body, &p))
	assert.Equal(t, "A", p.Name)
	assert.Equal(t, products.StockInStock, p.StockStatus)

	resp, err = app.Test(httptest.NewRequest("GET", "/products/P_NOPE", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
