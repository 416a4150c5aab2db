package backup

import (
	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature bundles the backup service and its HTTP handler.
type Feature struct {
	service *Service
	handler *Handler
}

// NewFeature creates the backup feature.
func NewFeature(cfg savefile.Config, client storage.Client, bucket string, store *catalog.Service, logger *zap.Logger) *Feature {
	service := NewService(cfg, client, bucket, store, logger)
	return &Feature{
		service: service,
		handler: NewHandler(service),
	}
}

// Service exposes the vault operations for CLI callers.
func (f *Feature) Service() *Service {
	return f.service
}

// Name returns the feature name.
func (f *Feature) Name() string {
	return "backup"
}

// IsEnabled reports whether the feature should be loaded.
func (f *Feature) IsEnabled() bool {
	return f.service.Enabled()
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
