package products

import (
	"errors"

	"catalog-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for products.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the product routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/products")
	group.Get("/", h.HandleListProducts)
	group.Get("/:sku", h.HandleGetProduct)
}

// HandleListProducts returns a page of synced products.
// @Summary List Products
// @Description List stored products ordered by SKU, optionally filtered by SKU prefix.
// @Tags products
// @Produce json
// @Param prefix query string false "SKU prefix (e.g. 'P_')"
// @Param page query int false "Page number, starting at 1"
// @Param limit query int false "Page size"
// @Success 200 {object} products.ListResult "Product page"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products [get]
func (h *Handler) HandleListProducts(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	q := ListQuery{
		Prefix: c.Query("prefix"),
		Page:   c.QueryInt("page", 1),
		Limit:  c.QueryInt("limit", 50),
	}

	res, err := h.service.List(c.Context(), q)
	if err != nil {
		l.Error("Product listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(res)
}

// HandleGetProduct returns a single product.
// @Summary Get Product
// @Description Get one stored product by SKU.
// @Tags products
// @Produce json
// @Param sku path string true "Product SKU (e.g. 'P_A1')"
// @Success 200 {object} products.Product "Product"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /products/{sku} [get]
func (h *Handler) HandleGetProduct(c *fiber.Ctx) error {
	sku := c.Params("sku")
	l := logger.WithRayID(h.service.logger, c)

	p, err := h.service.Get(c.Context(), sku)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Product lookup failed", zap.String("sku", sku), zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(p)
}
