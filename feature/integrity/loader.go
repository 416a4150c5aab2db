package integrity

import (
	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the integrity service and its HTTP handler.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the integrity feature.
func NewFeature(cfg savefile.Config, store *catalog.Service, client storage.Client, bucket string, logger *zap.Logger) *Feature {
	service := NewService(cfg, store, client, bucket, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Service exposes the checks for the CLI verify command.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "integrity"
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
