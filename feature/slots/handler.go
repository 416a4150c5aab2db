package slots

import (
	"errors"
	"net/url"

	"cogsaver/core/logger"
	"cogsaver/core/savefile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for slot operations.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the slot and saves routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	slots := app.Group("/slots")
	slots.Post("/quicksave", h.HandleQuicksave)
	slots.Post("/quickload", h.HandleQuickload)

	saves := app.Group("/saves")
	saves.Get("/", h.HandleList)
	saves.Post("/", h.HandleCreate)
	saves.Post("/:ref/restore", h.HandleRestore)
	saves.Delete("/:ref", h.HandleDelete)
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ErrNoGame):
		return fiber.StatusConflict
	case errors.Is(err, ErrNoQuicksave), errors.Is(err, ErrSaveNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, savefile.ErrNotPSState):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleQuicksave overwrites the quicksave slot with the live save.
// @Summary Quicksave
// @Description Copies the live save over the quicksave slot. Meant to be bound to a hotkey.
// @Tags slots
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Quicksave Path"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /slots/quicksave [post]
func (h *Handler) HandleQuicksave(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path, err := h.service.Quicksave(c.Context())
	if err != nil {
		l.Error("Quicksave failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "quicksaved",
		"path":   path,
	})
}

// HandleQuickload restores the quicksave slot over the live save.
// @Summary Quickload
// @Description Copies the quicksave slot back over the live save. Meant to be bound to a hotkey.
// @Tags slots
// @Accept json
// @Produce json
// @Success 200 {object} map[string]string "Load Result"
// @Failure 404 {object} map[string]string "No Quicksave Found"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /slots/quickload [post]
func (h *Handler) HandleQuickload(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	if err := h.service.Quickload(c.Context()); err != nil {
		l.Warn("Quickload failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{"status": "quickloaded"})
}

// HandleList lists the saves folder merged with catalog data.
// @Summary List Saves
// @Description Returns every save file for the selected game, newest first.
// @Tags saves
// @Accept json
// @Produce json
// @Success 200 {array} Save "Saves"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /saves [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	saves, err := h.service.List(c.Context())
	if err != nil {
		l.Error("Listing saves failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(saves)
}

// createRequest is the body of POST /saves.
type createRequest struct {
	Label string `json:"label"`
}

// HandleCreate creates a permanent save from the live save.
// @Summary Create Save
// @Description Copies the live save into the saves folder. Without a label the name is suggested from the save's state.
// @Tags saves
// @Accept json
// @Produce json
// @Param request body createRequest false "Save Label"
// @Success 201 {object} Save "Created Save"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /saves [post]
func (h *Handler) HandleCreate(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req createRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
	}

	save, err := h.service.Create(c.Context(), req.Label)
	if err != nil {
		l.Error("Creating save failed", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.Status(fiber.StatusCreated).JSON(save)
}

// HandleRestore restores a save over the live save.
// @Summary Restore Save
// @Description Resolves the reference (record id, file name or label) and copies that save over the live save. The live save is snapshotted first.
// @Tags saves
// @Accept json
// @Produce json
// @Param ref path string true "Save Reference"
// @Success 200 {object} map[string]string "Restore Result"
// @Failure 404 {object} map[string]string "Save Not Found"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /saves/{ref}/restore [post]
func (h *Handler) HandleRestore(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ref, err := urlParam(c, "ref")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	src, err := h.service.Restore(c.Context(), ref)
	if err != nil {
		l.Warn("Restore failed", zap.String("ref", ref), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "restored",
		"from":   src,
	})
}

// HandleDelete deletes a save file and its catalog row.
// @Summary Delete Save
// @Description Resolves the reference and deletes that save file. Only files inside the saves folder are deletable.
// @Tags saves
// @Accept json
// @Produce json
// @Param ref path string true "Save Reference"
// @Success 200 {object} map[string]string "Delete Result"
// @Failure 404 {object} map[string]string "Save Not Found"
// @Failure 409 {object} map[string]string "No Game Selected"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /saves/{ref} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)
	ref, err := urlParam(c, "ref")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	path, err := h.service.Delete(c.Context(), ref)
	if err != nil {
		l.Warn("Delete failed", zap.String("ref", ref), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"status": "deleted",
		"path":   path,
	})
}

// urlParam returns a route parameter with percent encoding resolved, so
// references with spaces survive the round trip.
func urlParam(c *fiber.Ctx, name string) (string, error) {
	return url.PathUnescape(c.Params(name))
}
