package reconcile

import (
	"context"
	"fmt"

	"cogsaver/core/storage"

	"gorm.io/gorm"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
// This function builds indices once and generates both reconciliation results and planned actions.
func ReconcileWithPlan(
	ctx context.Context,
	spec *Spec,
	db *gorm.DB,
	client storage.Client,
	bucket string,
	opts ReconcileOptions,
) (*ReconcilePlan, error) {
	// Build cache (which loads all indices concurrently)
	cache, err := GetOrBuildCache(ctx, spec, db, client, bucket)
	if err != nil {
		return nil, err
	}

	// Build results from the cached indices
	results := reconcileFromCache(cache, spec.Adapter)

	// Build summary and actions
	summary, actions := buildPlanFromResults(results, cache, spec, opts)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(
	ctx context.Context,
	spec *Spec,
	db *gorm.DB,
	client storage.Client,
	bucket string,
	plan *ReconcilePlan,
	opts ReconcileOptions,
) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	// Check if adapter implements Mutator
	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	// Group actions by type for efficient execution
	var (
		deleteCatalogKeys []string
		deleteVaultKeys   []string
		uploadKeys        []string
		syncActions       []Action
	)

	for _, action := range plan.Actions {
		switch action.Type {
		case ActionDeleteCatalog:
			deleteCatalogKeys = append(deleteCatalogKeys, action.Key)
		case ActionDeleteVault:
			deleteVaultKeys = append(deleteVaultKeys, action.Key)
		case ActionUploadVault:
			uploadKeys = append(uploadKeys, action.Key)
		case ActionSyncCatalog:
			syncActions = append(syncActions, action)
		}
	}

	// Execute deletions (purge actions) using batch methods if available

	// Catalog deletions
	if len(deleteCatalogKeys) > 0 {
		// Try batch delete first
		type CatalogBatchDeleter interface {
			DeleteCatalogBatch(ctx context.Context, keys []string) error
		}
		if batchDeleter, ok := mutator.(CatalogBatchDeleter); ok {
			if err := batchDeleter.DeleteCatalogBatch(ctx, deleteCatalogKeys); err != nil {
				return executed, fmt.Errorf("failed to batch delete catalog keys: %w", err)
			}
			executed += len(deleteCatalogKeys)
		} else {
			// Fallback to one-at-a-time
			for _, key := range deleteCatalogKeys {
				if err := mutator.DeleteCatalog(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete catalog key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	// Vault deletions
	if len(deleteVaultKeys) > 0 {
		// Try batch delete first
		type VaultBatchDeleter interface {
			DeleteVaultBatch(ctx context.Context, keys []string) error
		}
		if batchDeleter, ok := mutator.(VaultBatchDeleter); ok {
			if err := batchDeleter.DeleteVaultBatch(ctx, deleteVaultKeys); err != nil {
				return executed, fmt.Errorf("failed to batch delete vault keys: %w", err)
			}
			executed += len(deleteVaultKeys)
		} else {
			// Fallback to one-at-a-time
			for _, key := range deleteVaultKeys {
				if err := mutator.DeleteVault(ctx, key); err != nil {
					return executed, fmt.Errorf("failed to delete vault key %s: %w", key, err)
				}
				executed++
			}
		}
	}

	// Execute catalog syncs
	if len(syncActions) > 0 {
		// Try batch sync first
		type SyncBatcher interface {
			SyncCatalogBatch(ctx context.Context, actions []Action) error
		}
		if batchSyncer, ok := mutator.(SyncBatcher); ok {
			if err := batchSyncer.SyncCatalogBatch(ctx, syncActions); err != nil {
				return executed, fmt.Errorf("failed to batch sync catalog: %w", err)
			}
			executed += len(syncActions)
		} else {
			// Fallback to one-at-a-time
			for _, action := range syncActions {
				if err := mutator.SyncCatalog(ctx, action.Key, action.LocalItem); err != nil {
					return executed, fmt.Errorf("failed to sync key %s: %w", action.Key, err)
				}
				executed++
			}
		}
	}

	// Execute uploads; one at a time, the vault round-trip dominates anyway
	for _, key := range uploadKeys {
		if err := mutator.UploadVault(ctx, key); err != nil {
			return executed, fmt.Errorf("failed to upload key %s: %w", key, err)
		}
		executed++
	}

	// The stores changed; drop the cached indices
	if executed > 0 {
		InvalidateCache(spec)
	}

	return executed, nil
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
// It returns the plan, number of actions executed, and any error.
func ReconcileAndApply(
	ctx context.Context,
	spec *Spec,
	db *gorm.DB,
	client storage.Client,
	bucket string,
	opts ReconcileOptions,
) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec, db, client, bucket, opts)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, db, client, bucket, plan, opts)
	return plan, executed, err
}

// reconcileFromCache builds results from a cache (shared with ReconcileAll).
func reconcileFromCache(cache *ReconcileCache, adapter Adapter) []ReconcileResult {
	// Build union of all keys
	unionKeys := buildUnion(cache.CatalogIndex, cache.LocalIndex, cache.VaultSet)

	// Build results for each key
	results := make([]ReconcileResult, 0, len(unionKeys))
	for key := range unionKeys {
		result := buildResult(key, cache.CatalogIndex, cache.LocalIndex, cache.VaultSet, adapter)
		results = append(results, result)
	}

	return results
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
//
// Disk is the source of truth. Purge only ever removes catalog rows and vault
// objects of saves whose file vanished; sync brings the catalog and the vault
// up to date with the files that exist. No action deletes a save file.
func buildPlanFromResults(results []ReconcileResult, cache *ReconcileCache, spec *Spec, opts ReconcileOptions) (PlanSummary, []Action) {
	var summary PlanSummary
	var actions []Action

	summary.TotalItems = len(results)

	for _, result := range results {
		// catalog_missing: on disk (or in vault) but not cataloged
		if (result.LocalPresent || result.VaultPresent) && !result.CatalogPresent {
			summary.MissingCatalog++
		}

		// local_missing: cataloged or backed up, but the file is gone
		if (result.CatalogPresent || result.VaultPresent) && !result.LocalPresent {
			summary.MissingLocal++
		}

		// vault_missing: only meaningful while the vault is enabled
		if spec.VaultEnabled && (result.CatalogPresent || result.LocalPresent) && !result.VaultPresent {
			summary.MissingVault++
		}

		// Count mismatches
		if len(result.Mismatch) > 0 {
			summary.Mismatches++
		}

		// Plan purge actions for saves that vanished from disk
		if opts.DoPurge && !result.LocalPresent {
			if result.CatalogPresent {
				actions = append(actions, Action{
					Type:   ActionDeleteCatalog,
					Key:    result.ID,
					Reason: missingReason(result),
				})
				summary.PurgeActions++
			}
			if result.VaultPresent {
				actions = append(actions, Action{
					Type:   ActionDeleteVault,
					Key:    result.ID,
					Reason: missingReason(result),
				})
				summary.PurgeActions++
			}
			// Nothing on disk means nothing to sync
			continue
		}

		// Plan sync actions for saves that exist on disk
		if opts.DoSync && result.LocalPresent {
			if !result.CatalogPresent || len(result.Mismatch) > 0 {
				reason := "not cataloged"
				if result.CatalogPresent {
					reason = fmt.Sprintf("mismatch: %v", result.Mismatch)
				}
				actions = append(actions, Action{
					Type:      ActionSyncCatalog,
					Key:       result.ID,
					Reason:    reason,
					LocalItem: cache.LocalIndex[result.ID],
				})
				summary.SyncActions++
			}
			if spec.VaultEnabled && !result.VaultPresent {
				actions = append(actions, Action{
					Type:   ActionUploadVault,
					Key:    result.ID,
					Reason: "not backed up",
				})
				summary.SyncActions++
			}
		}
	}

	return summary, actions
}

// missingReason builds a reason string for why a save's leftovers are purged.
func missingReason(result ReconcileResult) string {
	var missing []string
	if !result.LocalPresent {
		missing = append(missing, "disk")
	}
	if !result.CatalogPresent {
		missing = append(missing, "catalog")
	}
	if !result.VaultPresent {
		missing = append(missing, "vault")
	}

	if len(missing) == 0 {
		return "complete"
	}
	return fmt.Sprintf("missing in: %v", missing)
}
