package statefield

import (
	"cogsaver/core/savefile"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the state editor service and its HTTP handler.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the statefield feature.
func NewFeature(cfg savefile.Config, snap Snapshotter, logger *zap.Logger) *Feature {
	service := NewService(cfg, snap, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Service exposes the underlying editor for CLI and TUI callers.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "statefield"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
