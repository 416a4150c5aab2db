package reconcile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cogsaver/core/database"
	"cogsaver/core/reconcile"
	"cogsaver/core/savefile"
	"cogsaver/core/storage/mocks"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// setupMutationHarness builds a real catalog over a temp saves folder.
func setupMutationHarness(t *testing.T) (*SaveAdapter, *catalog.Service, savefile.Config) {
	t.Helper()

	dir := t.TempDir()
	live := filepath.Join(dir, "storePSzombiesPSstate")
	require.NoError(t, os.WriteFile(live, []byte(sampleState), 0o644))

	cfg := savefile.Config{
		SaveLocation:  live,
		SavesDir:      "saves",
		QuicksaveName: "quicksave.cogsav",
		SaveExt:       ".cogsav",
	}
	require.NoError(t, os.MkdirAll(cfg.SavesPath(), 0o755))

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)

	store := catalog.NewService(db, cfg, zap.NewNop())
	require.NoError(t, store.Migrate())

	return NewAdapter(cfg.Game(), cfg.SaveExt), store, cfg
}

func writeSaveFile(t *testing.T, cfg savefile.Config, name string) string {
	t.Helper()
	path := filepath.Join(cfg.SavesPath(), filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(sampleState), 0o644))
	return path
}

func removeErrChan(errs ...minio.RemoveObjectError) <-chan minio.RemoveObjectError {
	ch := make(chan minio.RemoveObjectError, len(errs))
	for _, e := range errs {
		ch <- e
	}
	close(ch)
	return ch
}

func TestMutationsRequireContext(t *testing.T) {
	adapter := NewAdapter("zombies", ".cogsav")
	ctx := context.Background()

	assert.ErrorContains(t, adapter.DeleteCatalog(ctx, "x.cogsav"), "mutation context")
	assert.ErrorContains(t, adapter.DeleteVault(ctx, "x.cogsav"), "mutation context")
	assert.ErrorContains(t, adapter.SyncCatalog(ctx, "x.cogsav", nil), "mutation context")
	assert.ErrorContains(t, adapter.UploadVault(ctx, "x.cogsav"), "mutation context")
	assert.ErrorContains(t, adapter.DeleteCatalogBatch(ctx, []string{"x"}), "mutation context")
	assert.ErrorContains(t, adapter.DeleteVaultBatch(ctx, []string{"x"}), "mutation context")
}

func TestDeleteCatalog(t *testing.T) {
	adapter, store, cfg := setupMutationHarness(t)
	adapter.SetMutationContext(store, nil, "", VaultPrefix(cfg.Game()))

	path := writeSaveFile(t, cfg, "run1.cogsav")
	_, err := store.Register(context.Background(), path, "", models.SourceCreate)
	require.NoError(t, err)

	require.NoError(t, adapter.DeleteCatalog(context.Background(), "run1.cogsav"))

	rec, err := store.Get(context.Background(), "run1.cogsav")
	require.NoError(t, err)
	assert.Nil(t, rec, "Row should be gone")
	assert.FileExists(t, path, "The save file itself must never be touched")
}

func TestSyncCatalog(t *testing.T) {
	t.Run("WithLocalItem", func(t *testing.T) {
		adapter, store, cfg := setupMutationHarness(t)
		adapter.SetMutationContext(store, nil, "", VaultPrefix(cfg.Game()))

		path := writeSaveFile(t, cfg, "run1.cogsav")
		loc := &LocalSave{Key: "run1.cogsav", Path: path, Size: int64(len(sampleState))}

		require.NoError(t, adapter.SyncCatalog(context.Background(), "run1.cogsav", loc))

		rec, err := store.Get(context.Background(), "run1.cogsav")
		require.NoError(t, err)
		require.NotNil(t, rec)
		assert.Equal(t, models.SourceImport, rec.Source)
		assert.Equal(t, "Talia", rec.Character)
	})

	t.Run("WithoutLocalItemDerivesPath", func(t *testing.T) {
		adapter, store, cfg := setupMutationHarness(t)
		adapter.SetMutationContext(store, nil, "", VaultPrefix(cfg.Game()))

		writeSaveFile(t, cfg, "auto/x.cogsav")

		require.NoError(t, adapter.SyncCatalog(context.Background(), "auto/x.cogsav", nil))

		rec, err := store.Get(context.Background(), "auto/x.cogsav")
		require.NoError(t, err)
		require.NotNil(t, rec)
	})
}

func TestUploadVault(t *testing.T) {
	adapter, store, cfg := setupMutationHarness(t)
	mockClient := new(mocks.Client)
	adapter.SetMutationContext(store, mockClient, "vault", VaultPrefix(cfg.Game()))

	writeSaveFile(t, cfg, "run1.cogsav")

	mockClient.On("PutObject", mock.Anything, "vault", "zombies/saves/run1.cogsav",
		mock.Anything, int64(len(sampleState)), mock.Anything).
		Return(minio.UploadInfo{Key: "zombies/saves/run1.cogsav"}, nil)

	require.NoError(t, adapter.UploadVault(context.Background(), "run1.cogsav"))
	mockClient.AssertExpectations(t)
}

func TestDeleteCatalogBatch(t *testing.T) {
	adapter, store, cfg := setupMutationHarness(t)
	adapter.SetMutationContext(store, nil, "", VaultPrefix(cfg.Game()))

	for _, name := range []string{"a.cogsav", "b.cogsav", "c.cogsav"} {
		path := writeSaveFile(t, cfg, name)
		_, err := store.Register(context.Background(), path, "", models.SourceCreate)
		require.NoError(t, err)
	}

	require.NoError(t, adapter.DeleteCatalogBatch(context.Background(), []string{"a.cogsav", "c.cogsav"}))

	records, err := store.List(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b.cogsav", records[0].FileName)
}

func TestDeleteVaultBatch(t *testing.T) {
	adapter, store, cfg := setupMutationHarness(t)
	mockClient := new(mocks.Client)
	adapter.SetMutationContext(store, mockClient, "vault", VaultPrefix(cfg.Game()))

	var deleted []string
	mockClient.On("RemoveObjects", mock.Anything, "vault", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			ch := args.Get(2).(<-chan minio.ObjectInfo)
			for obj := range ch {
				deleted = append(deleted, obj.Key)
			}
		}).
		Return(removeErrChan())

	err := adapter.DeleteVaultBatch(context.Background(), []string{"gone.cogsav", "auto/x.cogsav"})

	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"zombies/saves/gone.cogsav", "zombies/saves/auto/x.cogsav"}, deleted)
}

func TestSyncCatalogBatch(t *testing.T) {
	adapter, store, cfg := setupMutationHarness(t)
	adapter.SetMutationContext(store, nil, "", VaultPrefix(cfg.Game()))

	path := writeSaveFile(t, cfg, "good.cogsav")

	actions := []reconcile.Action{
		{Type: reconcile.ActionSyncCatalog, Key: "good.cogsav", LocalItem: &LocalSave{Key: "good.cogsav", Path: path}},
		{Type: reconcile.ActionSyncCatalog, Key: "vanished.cogsav"},
	}

	err := adapter.SyncCatalogBatch(context.Background(), actions)

	require.Error(t, err, "The missing file should surface as a batch error")
	assert.Contains(t, err.Error(), "vanished.cogsav")

	rec, getErr := store.Get(context.Background(), "good.cogsav")
	require.NoError(t, getErr)
	assert.NotNil(t, rec, "The good file should still have been synced")
}
