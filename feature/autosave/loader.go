package autosave

import (
	"cogsaver/core/savefile"
	"cogsaver/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the autosave service and its HTTP handler.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the autosave feature.
func NewFeature(cfg savefile.Config, cat *catalog.Service, logger *zap.Logger) *Feature {
	service := NewService(cfg, cat, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Service exposes the snapshotter for CLI, TUI and other features.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "autosave"
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
