package reconcile

// Batch mutation operations. ApplyPlan upgrades to these when present.

import (
	"context"
	"fmt"

	"cogsaver/core/reconcile"
	"cogsaver/feature/catalog/models"

	"github.com/minio/minio-go/v7"
)

// DeleteCatalogBatch drops several catalog rows in a single IN query.
func (a *SaveAdapter) DeleteCatalogBatch(ctx context.Context, keys []string) error {
	a.mu.RLock()
	store := a.store
	a.mu.RUnlock()

	if store == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}
	if len(keys) == 0 {
		return nil
	}

	res := store.DB().WithContext(ctx).
		Where("game = ? AND file_name IN ?", a.game, keys).
		Delete(&models.SaveRecord{})
	if res.Error != nil {
		return fmt.Errorf("failed to batch delete catalog rows: %w", res.Error)
	}
	return nil
}

// DeleteVaultBatch removes several vault objects through the batch API.
func (a *SaveAdapter) DeleteVaultBatch(ctx context.Context, keys []string) error {
	a.mu.RLock()
	client, bucket, prefix := a.client, a.bucket, a.prefix
	a.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}
	if len(keys) == 0 {
		return nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: objectKey(prefix, key)}
	}
	close(objectsCh)

	errorCh := client.RemoveObjects(ctx, bucket, objectsCh, minio.RemoveObjectsOptions{})

	var errors []string
	for err := range errorCh {
		if err.Err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", err.ObjectName, err.Err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("batch delete had %d errors: %v", len(errors), errors)
	}
	return nil
}

// SyncCatalogBatch registers or refreshes several catalog rows. Unlike the
// one-at-a-time fallback it keeps going past individual failures, so one
// unreadable file does not abort the whole sync.
func (a *SaveAdapter) SyncCatalogBatch(ctx context.Context, actions []reconcile.Action) error {
	if len(actions) == 0 {
		return nil
	}

	var errors []string
	for _, action := range actions {
		if err := a.SyncCatalog(ctx, action.Key, action.LocalItem); err != nil {
			errors = append(errors, fmt.Sprintf("%s: %v", action.Key, err))
		}
	}

	if len(errors) > 0 {
		return fmt.Errorf("batch sync had %d errors: %v", len(errors), errors)
	}
	return nil
}
