// Package reconcile provides a generic system for reconciling three sources
// of truth about saved games: the catalog database, the saves directory on
// disk, and the backup vault.
//
// The three drift apart in normal use. The game and other tools write the
// saves folder directly, catalog rows survive files deleted by hand, and the
// vault lags behind whatever was uploaded last. Reconciliation makes the
// drift visible and, on request, repairs it.
//
// # Architecture
//
// The reconcile system consists of three main components:
//
//  1. Engine: Core reconciliation logic that builds a union of save keys from
//     all sources, detects presence/absence, and identifies drift between the
//     catalog row and the file on disk.
//
//  2. Adapter: Save-specific implementation that defines how to load data
//     from each source, extract keys, and compare fields. The engine stays
//     agnostic of catalog schema and vault layout.
//
//  3. Cache: TTL-based caching layer with stampede protection so targeted
//     lookups (one save) do not rebuild the full indices every time.
//
// # Source of truth
//
// The saves directory is authoritative. Plans only ever mutate the catalog
// and the vault: purge drops rows and objects for files that vanished, sync
// registers unknown files and uploads missing backups. No plan action deletes
// a save file, so a failed or mistaken reconcile cannot destroy progress.
//
// # Safety
//
// Mutations run through a plan/apply pipeline. ApplyPlan executes nothing
// unless the options carry Confirmed=true and DryRun=false, and adapters must
// opt into mutation by implementing Mutator.
//
// # Usage Example
//
//	adapter := catalogrec.NewAdapter(cfg.Game.Game(), cfg.Game.SaveExt)
//	spec := catalogrec.NewSpec(adapter, cfg.Game, cfg.Storage.Enabled, time.Minute)
//
//	// Full reconciliation
//	results, err := reconcile.ReconcileAll(ctx, spec, db, client, bucket)
//
//	// Targeted reconciliation (uses cache)
//	result, err := reconcile.ReconcileOne(ctx, spec, db, client, bucket, query)
package reconcile
