package autosave

import (
	"errors"

	"cogsaver/core/logger"
	"cogsaver/core/savefile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes autosave status and retention over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new autosave handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the autosave endpoints into the app.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	auto := app.Group("/autosave")
	auto.Get("/status", h.HandleStatus)
	auto.Post("/prune", h.HandlePrune)
}

// HandleStatus godoc
// @Summary Autosave status
// @Description Reports watcher activity, retention settings and the latest snapshot
// @Tags autosave
// @Produce json
// @Success 200 {object} Status
// @Router /autosave/status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	return c.JSON(h.service.Status())
}

// HandlePrune godoc
// @Summary Apply snapshot retention now
// @Description Removes snapshots beyond the configured keep count
// @Tags autosave
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 409 {object} map[string]string
// @Router /autosave/prune [post]
func (h *Handler) HandlePrune(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	removed, err := h.service.Prune(c.Context())
	if err != nil {
		status := fiber.StatusInternalServerError
		if errors.Is(err, savefile.ErrNoGame) {
			status = fiber.StatusConflict
		}
		l.Error("Failed to prune snapshots", zap.Error(err))
		return c.Status(status).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Snapshots pruned over HTTP", zap.Int("removed", removed))
	return c.JSON(fiber.Map{"status": "pruned", "removed": removed})
}
