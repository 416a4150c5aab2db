package reconcile

import (
	"context"
	"sort"

	"cogsaver/core/storage"

	"gorm.io/gorm"
)

// ReconcileAll performs a full reconciliation across all saves.
// It builds indices from the active sources, computes the union of keys,
// and returns a result for each key indicating presence and mismatches.
func ReconcileAll(ctx context.Context, spec *Spec, db *gorm.DB, client storage.Client, bucket string) ([]ReconcileResult, error) {
	// Build cache (which loads all indices concurrently)
	cache, err := BuildCache(ctx, spec, db, client, bucket)
	if err != nil {
		return nil, err
	}

	// Build union of all keys
	unionKeys := buildUnion(cache.CatalogIndex, cache.LocalIndex, cache.VaultSet)

	// Build results for each key
	results := make([]ReconcileResult, 0, len(unionKeys))
	for key := range unionKeys {
		result := buildResult(key, cache.CatalogIndex, cache.LocalIndex, cache.VaultSet, spec.Adapter)
		results = append(results, result)
	}

	// Sort results by key for deterministic output
	sort.Slice(results, func(i, j int) bool {
		return results[i].ID < results[j].ID
	})

	return results, nil
}

// ReconcileOne performs a targeted reconciliation for a single save.
// It uses cached indices if available, or performs targeted queries.
func ReconcileOne(ctx context.Context, spec *Spec, db *gorm.DB, client storage.Client, bucket string, query Query) (*ReconcileResult, error) {
	// Try to use cache if enabled
	if spec.CacheTTL > 0 {
		cache, err := GetOrBuildCache(ctx, spec, db, client, bucket)
		if err != nil {
			return nil, err
		}

		// Find the key from the query
		key := findKeyFromQuery(query, cache.CatalogIndex, cache.LocalIndex)
		if key == "" {
			// Not found in cache
			return &ReconcileResult{
				ID:             query.FileName,
				CatalogPresent: false,
				LocalPresent:   false,
				VaultPresent:   false,
			}, nil
		}

		result := buildResult(key, cache.CatalogIndex, cache.LocalIndex, cache.VaultSet, spec.Adapter)
		return &result, nil
	}

	// Fast path without cache: use targeted queries
	catalogItem, err := spec.Adapter.QueryCatalog(ctx, db, query)
	if err != nil {
		return nil, err
	}

	localItem, err := spec.Adapter.QueryLocal(ctx, spec.SavesDir, query)
	if err != nil {
		return nil, err
	}

	// For the vault, we need a key to check
	var key string
	if catalogItem != nil {
		key = spec.Adapter.ExtractCatalogKey(catalogItem)
	} else if localItem != nil {
		key = spec.Adapter.ExtractLocalKey(localItem)
	} else {
		// No catalog or disk item, use the queried file name as key
		key = query.FileName
	}

	vaultPresent := false
	if spec.VaultEnabled && key != "" {
		vaultPresent, err = spec.Adapter.CheckVault(ctx, client, bucket, spec.VaultPrefix, spec.Extension, key)
		if err != nil {
			return nil, err
		}
	}

	result := ReconcileResult{
		ID:             key,
		Name:           spec.Adapter.ResolveName(catalogItem, localItem),
		Metadata:       spec.Adapter.GetMetadata(catalogItem, localItem),
		CatalogPresent: catalogItem != nil,
		LocalPresent:   localItem != nil,
		VaultPresent:   vaultPresent,
		Mismatch:       []string{},
	}

	if catalogItem != nil && localItem != nil {
		result.Mismatch = spec.Adapter.CompareFields(catalogItem, localItem)
	}

	return &result, nil
}

// buildUnion creates a union of all keys from catalog, disk and vault.
func buildUnion(catalogIndex map[string]CatalogItem, localIndex map[string]LocalItem, vaultSet map[string]struct{}) map[string]struct{} {
	union := make(map[string]struct{})

	for key := range catalogIndex {
		union[key] = struct{}{}
	}

	for key := range localIndex {
		union[key] = struct{}{}
	}

	for key := range vaultSet {
		union[key] = struct{}{}
	}

	return union
}

// buildResult creates a ReconcileResult for a single key.
func buildResult(key string, catalogIndex map[string]CatalogItem, localIndex map[string]LocalItem, vaultSet map[string]struct{}, adapter Adapter) ReconcileResult {
	catalogItem, catalogPresent := catalogIndex[key]
	localItem, localPresent := localIndex[key]
	_, vaultPresent := vaultSet[key]

	result := ReconcileResult{
		ID:             key,
		CatalogPresent: catalogPresent,
		LocalPresent:   localPresent,
		VaultPresent:   vaultPresent,
		Mismatch:       []string{},
	}

	// Resolve name and metadata
	if catalogPresent || localPresent {
		var catalogItemPtr CatalogItem
		var localItemPtr LocalItem
		if catalogPresent {
			catalogItemPtr = catalogItem
		}
		if localPresent {
			localItemPtr = localItem
		}
		result.Name = adapter.ResolveName(catalogItemPtr, localItemPtr)
		result.Metadata = adapter.GetMetadata(catalogItemPtr, localItemPtr)
	}

	// Compare fields if both present
	if catalogPresent && localPresent {
		result.Mismatch = adapter.CompareFields(catalogItem, localItem)
	}

	return result
}

// findKeyFromQuery attempts to find the save key from a query using cached indices.
func findKeyFromQuery(query Query, catalogIndex map[string]CatalogItem, localIndex map[string]LocalItem) string {
	// Try direct key match first
	if query.FileName != "" {
		if _, exists := catalogIndex[query.FileName]; exists {
			return query.FileName
		}
		if _, exists := localIndex[query.FileName]; exists {
			return query.FileName
		}
	}

	// Label lookups cannot be resolved generically; fall back to treating
	// the label as a key, which covers saves named after their label.
	if query.Label != "" {
		if _, exists := catalogIndex[query.Label]; exists {
			return query.Label
		}
		if _, exists := localIndex[query.Label]; exists {
			return query.Label
		}
	}

	return ""
}
