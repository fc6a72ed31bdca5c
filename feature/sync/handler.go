package sync

import (
	"errors"
	"math"
	"strconv"

	"catalog-sync/core/logger"
	"catalog-sync/core/middleware/auth"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for sync runs.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the sync routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/sync")
	group.Post("/", h.HandleTriggerSync)
	group.Get("/status", h.HandleGetStatus)
}

// actor identifies the caller for rate limiting: the API key when one is
// sent, the client IP otherwise.
func actor(c *fiber.Ctx) string {
	if key := c.Get(auth.Header); key != "" {
		return "key:" + key
	}
	if key := c.Query("api_key"); key != "" {
		return "key:" + key
	}
	return "ip:" + c.IP()
}

// HandleTriggerSync runs one sync page synchronously.
// @Summary Trigger Sync
// @Description Run one sync page now. Refused while another run is active.
// @Tags sync
// @Produce json
// @Param mode query string false "Run mode: full (default) or descriptions"
// @Success 200 {object} sync.Result "Run summary"
// @Failure 400 {object} map[string]string "Invalid mode"
// @Failure 409 {object} map[string]string "Sync already in progress"
// @Failure 429 {object} map[string]string "Too many triggers"
// @Failure 500 {object} map[string]interface{} "Run failed"
// @Router /sync [post]
func (h *Handler) HandleTriggerSync(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	mode, err := ParseMode(c.Query("mode"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	who := actor(c)
	if ok, retry := h.service.AllowTrigger(who); !ok {
		c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(math.Ceil(retry.Seconds()))))
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "too many sync triggers, try again later",
		})
	}

	res, err := h.service.Run(c.Context(), mode)
	if err != nil {
		if errors.Is(err, ErrAlreadyRunning) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		l.Error("Sync run failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":  err.Error(),
			"result": res,
		})
	}

	return c.JSON(res)
}

// HandleGetStatus returns the persisted status, phase and cursor.
// @Summary Sync Status
// @Description Get the current sync status, state-machine phase and cursor.
// @Tags sync
// @Produce json
// @Success 200 {object} sync.StatusReport "Status"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /sync/status [get]
func (h *Handler) HandleGetStatus(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	report, err := h.service.Status(c.Context())
	if err != nil {
		l.Error("Sync status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(report)
}
