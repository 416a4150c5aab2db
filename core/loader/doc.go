// Package loader wires feature packages into the Fiber application.
//
// Every feature (slots, catalog, autosave and so on) satisfies the Feature
// interface and owns its route group:
//
//	type Feature interface {
//	    Name() string
//	    IsEnabled() bool
//	    Load(app fiber.Router) error
//	}
//
// The Manager collects registered features and mounts the enabled ones in
// registration order via LoadAll. A feature that reports IsEnabled false is
// skipped rather than failed, so optional subsystems (a vault without
// credentials, a catalog without a database) simply stay unmounted.
package loader
