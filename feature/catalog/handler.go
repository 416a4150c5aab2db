package catalog

import (
	"cogsaver/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the catalog.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the catalog routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/catalog")
	group.Get("/", h.HandleList)
	group.Post("/rescan", h.HandleRescan)
}

// HandleList lists all cataloged saves for the selected game.
// @Summary List Catalog Records
// @Description Returns every cataloged save for the selected game, newest first.
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {array} models.SaveRecord "Catalog Records"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	records, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Catalog list failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(records)
}

// HandleRescan walks the saves folder for unknown save files.
// @Summary Rescan Saves Folder
// @Description Registers save files found on disk that the catalog does not know yet.
// @Tags catalog
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Rescan Result"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /catalog/rescan [post]
func (h *Handler) HandleRescan(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	l.Info("Rescanning saves folder")

	added, err := h.service.Rescan(c.Context())
	if err != nil {
		l.Error("Rescan failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "rescanned",
		"added":  added,
	})
}
