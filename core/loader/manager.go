package loader

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature is a self-contained module that can mount routes on the app.
type Feature interface {
	// Name returns the feature identifier used in logs and route groups.
	Name() string
	// IsEnabled reports whether the feature should be loaded at all.
	IsEnabled() bool
	// Load mounts the feature's routes onto the given router.
	Load(app fiber.Router) error
}

// Manager holds registered features and loads them in registration order.
type Manager struct {
	features []Feature
}

// NewManager creates an empty feature registry.
func NewManager() *Manager {
	return &Manager{}
}

// Register adds a feature to the registry. Registration order is load order.
func (m *Manager) Register(f Feature) {
	m.features = append(m.features, f)
}

// LoadAll loads every enabled feature. Disabled features are skipped with a
// log line; the first load error aborts the process and is returned.
func (m *Manager) LoadAll(app fiber.Router) error {
	for _, f := range m.features {
		if !f.IsEnabled() {
			zap.L().Info("Feature disabled, skipping", zap.String("feature", f.Name()))
			continue
		}

		if err := f.Load(app); err != nil {
			return fmt.Errorf("failed to load feature %s: %w", f.Name(), err)
		}

		zap.L().Info("Feature loaded", zap.String("feature", f.Name()))
	}

	return nil
}
