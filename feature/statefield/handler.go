package statefield

import (
	"errors"

	"cogsaver/core/logger"
	"cogsaver/core/savefile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler exposes the state editor over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new statefield handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes wires the state endpoints into the app.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	state := app.Group("/state")
	state.Get("/", h.HandleShow)
	state.Get("/field", h.HandleGet)
	state.Put("/field", h.HandleSet)
	state.Delete("/field", h.HandleUnset)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, savefile.ErrNoGame):
		return fiber.StatusConflict
	case errors.Is(err, ErrFieldNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, savefile.ErrStateNotFound):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// HandleShow godoc
// @Summary Show the decoded save state
// @Description Returns the save summary plus a flat table of every stats field
// @Tags state
// @Produce json
// @Success 200 {object} View
// @Failure 409 {object} map[string]string
// @Router /state [get]
func (h *Handler) HandleShow(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	view, err := h.service.Show(c.Context())
	if err != nil {
		l.Error("Failed to show state", zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(view)
}

// HandleGet godoc
// @Summary Read one state field
// @Description Looks up a gjson path in the live save's state
// @Tags state
// @Produce json
// @Param path query string true "gjson path, e.g. stats.health"
// @Success 200 {object} Field
// @Failure 404 {object} map[string]string
// @Router /state/field [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path query parameter is required"})
	}

	field, err := h.service.Get(c.Context(), path)
	if err != nil {
		l.Error("Failed to read state field", zap.String("path", path), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(field)
}

type setRequest struct {
	Path   string `json:"path"`
	Value  string `json:"value"`
	String bool   `json:"string"`
	Create bool   `json:"create"`
}

// HandleSet godoc
// @Summary Write one state field
// @Description Sets a gjson path in the live save's state and persists the save atomically
// @Tags state
// @Accept json
// @Produce json
// @Param request body setRequest true "field write"
// @Success 200 {object} Field
// @Failure 404 {object} map[string]string
// @Router /state/field [put]
func (h *Handler) HandleSet(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req setRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path is required"})
	}

	field, err := h.service.Set(c.Context(), req.Path, req.Value, SetOptions{
		ForceString: req.String,
		Create:      req.Create,
	})
	if err != nil {
		l.Error("Failed to write state field", zap.String("path", req.Path), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("State field written over HTTP", zap.String("path", req.Path))
	return c.JSON(field)
}

// HandleUnset godoc
// @Summary Delete one state field
// @Description Removes a gjson path from the live save's state
// @Tags state
// @Produce json
// @Param path query string true "gjson path to remove"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /state/field [delete]
func (h *Handler) HandleUnset(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	path := c.Query("path")
	if path == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "path query parameter is required"})
	}

	if err := h.service.Unset(c.Context(), path); err != nil {
		l.Error("Failed to remove state field", zap.String("path", path), zap.Error(err))
		return c.Status(statusFor(err)).JSON(fiber.Map{"error": err.Error()})
	}

	l.Info("State field removed over HTTP", zap.String("path", path))
	return c.JSON(fiber.Map{"status": "deleted", "path": path})
}
