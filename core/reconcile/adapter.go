package reconcile

import (
	"context"

	"cogsaver/core/storage"

	"gorm.io/gorm"
)

// Adapter defines the interface for save-specific reconciliation logic.
// The engine stays generic over three sources (catalog database, local saves
// directory, backup vault); the adapter knows how to load and compare them.
type Adapter interface {
	// Name returns the unique name of this adapter (e.g., "saves").
	Name() string

	// LoadCatalogIndex loads all catalog rows and returns them indexed by
	// save key. Implementations should load minimal columns in one query.
	LoadCatalogIndex(ctx context.Context, db *gorm.DB) (map[string]CatalogItem, error)

	// LoadLocalIndex walks the saves directory and returns the save files
	// indexed by key. Implementations should stat, not parse, each file.
	LoadLocalIndex(ctx context.Context, dir string) (map[string]LocalItem, error)

	// LoadVaultSet lists all vault objects under the given prefix, filtered
	// by extension, and returns a set of save keys. Implementations should
	// use paginated listing and avoid per-object HEAD calls.
	LoadVaultSet(ctx context.Context, client storage.Client, bucket, prefix, extension string) (map[string]struct{}, error)

	// ExtractCatalogKey returns the save key from a catalog item.
	// The key is used to build the union and match items across sources.
	ExtractCatalogKey(item CatalogItem) string

	// ExtractLocalKey returns the save key from a disk item.
	ExtractLocalKey(item LocalItem) string

	// ExtractVaultKey parses a vault object key and returns the save key.
	// If the object key doesn't match the expected pattern, ok is false.
	// Example: "zombies/saves/run1.cogsav" -> ("run1.cogsav", true).
	ExtractVaultKey(objectKey, extension string) (key string, ok bool)

	// ResolveName returns the display name for a save given available
	// catalog and/or disk items. Either item may be nil if not present.
	ResolveName(catalogItem CatalogItem, localItem LocalItem) string

	// CompareFields compares the catalog row against the file on disk and
	// returns a list of mismatch descriptions. Each string should include
	// the field label and both values (e.g., "size: disk=10 catalog=12").
	// Both items are guaranteed to be non-nil when this is called.
	CompareFields(catalogItem CatalogItem, localItem LocalItem) []string

	// QueryCatalog performs a targeted catalog lookup based on the query
	// parameters, used for fast targeted reconciliation without building
	// the full index. Returns nil if no match is found.
	QueryCatalog(ctx context.Context, db *gorm.DB, query Query) (CatalogItem, error)

	// QueryLocal performs a targeted disk lookup based on the query
	// parameters. Returns nil if no match is found.
	QueryLocal(ctx context.Context, dir string, query Query) (LocalItem, error)

	// CheckVault checks if a specific save exists in the vault, used for
	// fast targeted reconciliation without listing all objects.
	CheckVault(ctx context.Context, client storage.Client, bucket, prefix, extension string, key string) (bool, error)

	// GetMetadata returns save-specific metadata (e.g., character, scene)
	// for inclusion in the ReconcileResult.
	GetMetadata(catalogItem CatalogItem, localItem LocalItem) map[string]string
}
