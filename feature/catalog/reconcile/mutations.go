package reconcile

// Mutation methods implementing reconcile.Mutator. Disk stays the source of
// truth: nothing here ever writes to or deletes from the saves folder.

import (
	"context"
	"fmt"
	"os"

	"cogsaver/core/reconcile"
	"cogsaver/core/storage"
	"cogsaver/feature/catalog/models"

	"github.com/minio/minio-go/v7"
)

// SetMutationContext wires the write side of the adapter. Plans can only be
// applied after this has been called.
func (a *SaveAdapter) SetMutationContext(store CatalogStore, client storage.Client, bucket, prefix string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.store = store
	a.client = client
	a.bucket = bucket
	a.prefix = prefix
}

// DeleteCatalog drops the catalog row for a save whose file vanished.
func (a *SaveAdapter) DeleteCatalog(ctx context.Context, key string) error {
	a.mu.RLock()
	store := a.store
	a.mu.RUnlock()

	if store == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}

	if err := store.Remove(ctx, key); err != nil {
		return fmt.Errorf("failed to delete catalog row: %w", err)
	}
	return nil
}

// DeleteVault removes the vault object for a save whose file vanished.
func (a *SaveAdapter) DeleteVault(ctx context.Context, key string) error {
	a.mu.RLock()
	client, bucket, prefix := a.client, a.bucket, a.prefix
	a.mu.RUnlock()

	if client == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}

	err := client.RemoveObject(ctx, bucket, objectKey(prefix, key), minio.RemoveObjectOptions{})
	if err != nil {
		return fmt.Errorf("failed to delete vault object: %w", err)
	}
	return nil
}

// SyncCatalog registers or refreshes the catalog row for a save from disk.
func (a *SaveAdapter) SyncCatalog(ctx context.Context, key string, localItem reconcile.LocalItem) error {
	a.mu.RLock()
	store := a.store
	a.mu.RUnlock()

	if store == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}

	path := ""
	if loc, ok := localItem.(*LocalSave); ok && loc != nil {
		path = loc.Path
	} else {
		path = store.PathFor(&models.SaveRecord{FileName: key})
	}

	if _, err := store.Register(ctx, path, "", models.SourceImport); err != nil {
		return fmt.Errorf("failed to sync catalog row: %w", err)
	}
	return nil
}

// UploadVault uploads the local save file for the key to the vault.
func (a *SaveAdapter) UploadVault(ctx context.Context, key string) error {
	a.mu.RLock()
	store, client, bucket, prefix := a.store, a.client, a.bucket, a.prefix
	a.mu.RUnlock()

	if store == nil || client == nil {
		return fmt.Errorf("mutation context not set, call SetMutationContext first")
	}

	path := store.PathFor(&models.SaveRecord{FileName: key})

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open save for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat save for upload: %w", err)
	}

	_, err = client.PutObject(ctx, bucket, objectKey(prefix, key), f, info.Size(),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("failed to upload save: %w", err)
	}
	return nil
}
