package backup

import (
	"errors"

	"cogsaver/core/logger"
	"cogsaver/core/savefile"
	"cogsaver/core/storage"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes vault operations over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new backup handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the backup endpoints into the app.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/backup")
	group.Get("/", h.HandleList)
	group.Post("/push", h.HandlePush)
	group.Post("/pull", h.HandlePull)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, storage.ErrDisabled):
		return fiber.StatusServiceUnavailable
	case errors.Is(err, savefile.ErrNoGame):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleList godoc
// @Summary List backed-up saves
// @Description Lists every vault object for the selected game
// @Tags backup
// @Produce json
// @Success 200 {array} Entry
// @Failure 503 {object} map[string]string
// @Router /backup [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	entries, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Failed to list vault", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(entries)
}

// HandlePush godoc
// @Summary Upload saves to the vault
// @Description Uploads saves the vault is missing or holds at a different size
// @Tags backup
// @Produce json
// @Success 200 {object} Result
// @Failure 503 {object} map[string]string
// @Router /backup/push [post]
func (h *Handler) HandlePush(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Push(c.Context())
	if err != nil {
		l.Error("Vault push failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Vault push over HTTP", zap.Int("uploaded", len(result.Uploaded)))
	return c.JSON(result)
}

// HandlePull godoc
// @Summary Download missing saves from the vault
// @Description Downloads saves the folder is missing, never overwriting local files
// @Tags backup
// @Produce json
// @Success 200 {object} Result
// @Failure 503 {object} map[string]string
// @Router /backup/pull [post]
func (h *Handler) HandlePull(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	result, err := h.service.Pull(c.Context())
	if err != nil {
		l.Error("Vault pull failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("Vault pull over HTTP", zap.Int("downloaded", len(result.Downloaded)))
	return c.JSON(result)
}
