package reconcile

import (
	"time"

	"cogsaver/core/reconcile"
	"cogsaver/core/savefile"
)

// VaultPrefix returns the object-key prefix a game's saves live under in
// the vault. The adapter's ExtractVaultKey assumes this layout.
func VaultPrefix(game string) string {
	return game + "/saves/"
}

// NewSpec assembles a reconcile spec for the selected game.
func NewSpec(adapter *SaveAdapter, cfg savefile.Config, vaultEnabled bool, cacheTTL time.Duration) *reconcile.Spec {
	return &reconcile.Spec{
		Adapter:      adapter,
		CacheTTL:     cacheTTL,
		SavesDir:     cfg.SavesPath(),
		VaultPrefix:  VaultPrefix(cfg.Game()),
		Extension:    cfg.SaveExt,
		VaultEnabled: vaultEnabled,
	}
}
