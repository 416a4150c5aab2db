package reconcile

import (
	"context"
	"sync"
	"time"

	"cogsaver/core/storage"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// ReconcileCache holds pre-built indices for fast targeted reconciliation.
type ReconcileCache struct {
	// CatalogIndex is the indexed map of catalog rows by save key.
	CatalogIndex map[string]CatalogItem

	// LocalIndex is the indexed map of disk items by save key.
	LocalIndex map[string]LocalItem

	// VaultSet is the set of save keys present in the vault.
	VaultSet map[string]struct{}

	// Built is the timestamp when this cache was built.
	Built time.Time

	// TTL is the time-to-live for this cache.
	TTL time.Duration
}

// IsExpired returns true if this cache has expired based on its TTL.
func (c *ReconcileCache) IsExpired() bool {
	if c.TTL == 0 {
		return true // No caching
	}
	return time.Since(c.Built) > c.TTL
}

// cacheStore holds all reconcile caches keyed by spec cache key.
type cacheStore struct {
	mu     sync.RWMutex
	caches map[string]*ReconcileCache
	sf     singleflight.Group
}

// globalCacheStore is the singleton cache store for all reconcile operations.
var globalCacheStore = &cacheStore{
	caches: make(map[string]*ReconcileCache),
}

// BuildCache builds a new cache for the given spec by loading all indices.
// This function does NOT store the cache; use GetOrBuildCache for that.
func BuildCache(ctx context.Context, spec *Spec, db *gorm.DB, client storage.Client, bucket string) (*ReconcileCache, error) {
	var (
		catalogIndex map[string]CatalogItem
		localIndex   map[string]LocalItem
		vaultSet     = map[string]struct{}{}
		catalogErr   error
		localErr     error
		vaultErr     error
		wg           sync.WaitGroup
	)

	// Build indices concurrently
	wg.Add(2)

	// Build catalog index
	go func() {
		defer wg.Done()
		catalogIndex, catalogErr = spec.Adapter.LoadCatalogIndex(ctx, db)
	}()

	// Build local index
	go func() {
		defer wg.Done()
		localIndex, localErr = spec.Adapter.LoadLocalIndex(ctx, spec.SavesDir)
	}()

	// Build vault set only when the vault is an active source
	if spec.VaultEnabled {
		wg.Add(1)
		go func() {
			defer wg.Done()
			vaultSet, vaultErr = spec.Adapter.LoadVaultSet(ctx, client, bucket, spec.VaultPrefix, spec.Extension)
		}()
	}

	wg.Wait()

	// Check for errors
	if catalogErr != nil {
		return nil, catalogErr
	}
	if localErr != nil {
		return nil, localErr
	}
	if vaultErr != nil {
		return nil, vaultErr
	}

	return &ReconcileCache{
		CatalogIndex: catalogIndex,
		LocalIndex:   localIndex,
		VaultSet:     vaultSet,
		Built:        time.Now(),
		TTL:          spec.CacheTTL,
	}, nil
}

// GetOrBuildCache retrieves a cache for the given spec from the store,
// or builds a new one if it doesn't exist or has expired.
// Uses singleflight to prevent cache stampedes.
func GetOrBuildCache(ctx context.Context, spec *Spec, db *gorm.DB, client storage.Client, bucket string) (*ReconcileCache, error) {
	cacheKey := spec.CacheKey()

	// Fast path: check if cache exists and is fresh
	globalCacheStore.mu.RLock()
	cache, exists := globalCacheStore.caches[cacheKey]
	globalCacheStore.mu.RUnlock()

	if exists && !cache.IsExpired() {
		return cache, nil
	}

	// Slow path: build cache using singleflight to prevent stampedes
	result, err, _ := globalCacheStore.sf.Do(cacheKey, func() (interface{}, error) {
		// Double-check after acquiring singleflight lock
		globalCacheStore.mu.RLock()
		cache, exists := globalCacheStore.caches[cacheKey]
		globalCacheStore.mu.RUnlock()

		if exists && !cache.IsExpired() {
			return cache, nil
		}

		// Build new cache
		newCache, err := BuildCache(ctx, spec, db, client, bucket)
		if err != nil {
			return nil, err
		}

		// Store in cache
		globalCacheStore.mu.Lock()
		globalCacheStore.caches[cacheKey] = newCache
		globalCacheStore.mu.Unlock()

		return newCache, nil
	})

	if err != nil {
		return nil, err
	}

	return result.(*ReconcileCache), nil
}

// InvalidateCache removes the cache for the given spec from the store.
// Mutating operations call this so the next reconcile sees their effects.
func InvalidateCache(spec *Spec) {
	cacheKey := spec.CacheKey()
	globalCacheStore.mu.Lock()
	delete(globalCacheStore.caches, cacheKey)
	globalCacheStore.mu.Unlock()
}
