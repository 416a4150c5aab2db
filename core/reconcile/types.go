package reconcile

import (
	"context"
	"time"
)

// ReconcileResult represents the reconciliation output for a single save.
// It contains presence flags for each source and any detected mismatches.
type ReconcileResult struct {
	// ID is the save's key, its file name inside the saves folder.
	ID string `json:"id"`

	// Name is the display name of the save.
	Name string `json:"name"`

	// CatalogPresent indicates whether the save has a catalog row.
	CatalogPresent bool `json:"catalog_present"`

	// LocalPresent indicates whether the save file exists on disk.
	LocalPresent bool `json:"local_present"`

	// VaultPresent indicates whether the save is backed up in the vault.
	// Always false while the vault is disabled.
	VaultPresent bool `json:"vault_present"`

	// Mismatch contains descriptions of drift between the catalog row and
	// the file on disk, e.g. "sha256: disk=ab12 catalog=cd34".
	Mismatch []string `json:"mismatch"`

	// Metadata contains save-specific data (character, scene, source).
	Metadata map[string]string `json:"metadata"`
}

// Query represents a search query for targeted reconciliation.
// The adapter decides how to translate query fields into lookups.
type Query struct {
	// FileName is the save file name to search for.
	FileName string

	// Label is the save label to search for.
	Label string
}

// Spec defines the configuration for a reconciliation operation.
// It bundles the adapter, cache settings, and data source parameters.
type Spec struct {
	// Adapter provides the save-specific reconciliation logic.
	Adapter Adapter

	// CacheTTL is the time-to-live for cached indices.
	// If zero, caching is disabled.
	CacheTTL time.Duration

	// SavesDir is the local saves directory to index.
	SavesDir string

	// VaultPrefix is the prefix under which vault objects live,
	// e.g. "zombies/saves/".
	VaultPrefix string

	// Extension is the file extension saves carry (".cogsav").
	Extension string

	// VaultEnabled marks the vault as a live source. When false the vault
	// is neither listed nor counted as missing.
	VaultEnabled bool
}

// CacheKey returns a unique key for caching based on spec parameters.
// This ensures different games/configs don't share the same cache.
func (s *Spec) CacheKey() string {
	return s.Adapter.Name() + "|" + s.SavesDir + "|" + s.VaultPrefix + "|" + s.Extension
}

// CatalogItem represents a catalog row with arbitrary fields.
// Adapters define the concrete type and provide a way to extract this.
type CatalogItem any

// LocalItem represents a save file on disk with arbitrary fields.
// Adapters define the concrete type and provide a way to extract this.
type LocalItem any

// ActionType represents the type of mutation action.
type ActionType string

const (
	// ActionDeleteCatalog deletes a save's catalog row.
	ActionDeleteCatalog ActionType = "delete_catalog"
	// ActionDeleteVault deletes a save's vault object.
	ActionDeleteVault ActionType = "delete_vault"
	// ActionSyncCatalog registers or refreshes a catalog row from disk.
	ActionSyncCatalog ActionType = "sync_catalog"
	// ActionUploadVault uploads a local save to the vault.
	ActionUploadVault ActionType = "upload_vault"
)

// Action represents a planned mutation operation. The saves folder itself is
// never the target of an action: disk is the source of truth, so plans only
// ever touch the catalog and the vault.
type Action struct {
	// Type specifies the action to perform.
	Type ActionType `json:"type"`

	// Key is the save file name.
	Key string `json:"key"`

	// Reason explains why this action is needed.
	Reason string `json:"reason"`

	// LocalItem carries the disk-side source for sync actions.
	// Only populated for ActionSyncCatalog.
	LocalItem LocalItem `json:"-"`
}

// ReconcilePlan contains reconciliation results and planned actions.
type ReconcilePlan struct {
	// Results contains per-save reconciliation data.
	Results []ReconcileResult `json:"results"`

	// Actions contains planned mutation operations.
	Actions []Action `json:"actions"`

	// Summary provides aggregate counts.
	Summary PlanSummary `json:"summary"`
}

// PlanSummary provides aggregate statistics for a reconcile plan.
type PlanSummary struct {
	// TotalItems is the total number of unique saves.
	TotalItems int `json:"total_items"`

	// MissingCatalog counts saves without a catalog row.
	MissingCatalog int `json:"missing_catalog"`

	// MissingLocal counts saves whose file vanished from disk.
	MissingLocal int `json:"missing_local"`

	// MissingVault counts saves without a vault backup.
	// Stays zero while the vault is disabled.
	MissingVault int `json:"missing_vault"`

	// Mismatches counts saves whose catalog row drifted from the file.
	Mismatches int `json:"mismatches"`

	// PurgeActions counts planned purge (delete) actions.
	PurgeActions int `json:"purge_actions"`

	// SyncActions counts planned sync (register/refresh/upload) actions.
	SyncActions int `json:"sync_actions"`
}

// ReconcileOptions controls reconcile behavior for purge/sync operations.
type ReconcileOptions struct {
	// DryRun prevents execution of any mutations if true.
	DryRun bool

	// DoPurge enables dropping catalog rows and vault objects of saves
	// whose file vanished from disk.
	DoPurge bool

	// DoSync enables registering/refreshing catalog rows from disk and
	// uploading missing vault backups.
	DoSync bool

	// Confirmed indicates user has confirmed destructive actions.
	// If false, mutations will not execute regardless of DryRun.
	Confirmed bool
}

// Mutator is the write side of an adapter. ApplyPlan refuses to run against
// adapters that do not implement it.
type Mutator interface {
	// DeleteCatalog removes the catalog row for the save key.
	DeleteCatalog(ctx context.Context, key string) error

	// DeleteVault removes the vault object for the save key.
	DeleteVault(ctx context.Context, key string) error

	// SyncCatalog registers or refreshes the catalog row for the save key
	// from its disk-side item.
	SyncCatalog(ctx context.Context, key string, localItem LocalItem) error

	// UploadVault uploads the local save for the key to the vault.
	UploadVault(ctx context.Context, key string) error
}
