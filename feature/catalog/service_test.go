package catalog_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"cogsaver/core/database"
	"cogsaver/core/savefile"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleState = `{"stats":{"name":"Talia"},"sceneName":"chapter_3","lineNum":42,"version":"1.2.0"}`

func newTestService(t *testing.T) (*catalog.Service, savefile.Config) {
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

	svc := catalog.NewService(db, cfg, zap.NewNop())
	require.NoError(t, svc.Migrate())

	return svc, cfg
}

func writeSave(t *testing.T, cfg savefile.Config, name, content string) string {
	t.Helper()
	path := filepath.Join(cfg.SavesPath(), filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegister(t *testing.T) {
	t.Run("CatalogsFileWithParsedState", func(t *testing.T) {
		svc, cfg := newTestService(t)
		path := writeSave(t, cfg, "run1.cogsav", sampleState)

		rec, err := svc.Register(context.Background(), path, "before boss", models.SourceCreate)

		require.NoError(t, err)
		assert.NotEmpty(t, rec.ID)
		assert.Equal(t, "zombies", rec.Game)
		assert.Equal(t, "run1.cogsav", rec.FileName)
		assert.Equal(t, "before boss", rec.Label)
		assert.Equal(t, "Talia", rec.Character)
		assert.Equal(t, "chapter_3", rec.Scene)
		assert.Len(t, rec.Sha256, 64)
		assert.Equal(t, int64(len(sampleState)), rec.Size)
		assert.Equal(t, models.SourceCreate, rec.Source)
	})

	t.Run("RefreshesExistingRow", func(t *testing.T) {
		svc, cfg := newTestService(t)
		path := writeSave(t, cfg, "run1.cogsav", sampleState)

		first, err := svc.Register(context.Background(), path, "before boss", models.SourceCreate)
		require.NoError(t, err)

		changed := `{"stats":{"name":"Talia"},"sceneName":"chapter_4","lineNum":7}`
		require.NoError(t, os.WriteFile(path, []byte(changed), 0o644))

		second, err := svc.Register(context.Background(), path, "", models.SourceImport)
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		records, err := svc.List(context.Background())
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, "chapter_4", records[0].Scene)
		assert.Equal(t, "before boss", records[0].Label)
		assert.NotEqual(t, first.Sha256, records[0].Sha256)
	})
}

func TestRescan(t *testing.T) {
	t.Run("RegistersUnknownFiles", func(t *testing.T) {
		svc, cfg := newTestService(t)
		writeSave(t, cfg, "run1.cogsav", sampleState)
		writeSave(t, cfg, "run2.cogsav", sampleState)
		writeSave(t, cfg, "auto/25.03.09 14.05.cogsav", sampleState)
		writeSave(t, cfg, "notes.txt", "not a save")

		added, err := svc.Rescan(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 3, added)

		auto, err := svc.Get(context.Background(), "auto/25.03.09 14.05.cogsav")
		require.NoError(t, err)
		require.NotNil(t, auto)
		assert.Equal(t, models.SourceAutosave, auto.Source)

		run, err := svc.Get(context.Background(), "run1.cogsav")
		require.NoError(t, err)
		require.NotNil(t, run)
		assert.Equal(t, models.SourceImport, run.Source)
	})

	t.Run("SecondScanAddsNothing", func(t *testing.T) {
		svc, cfg := newTestService(t)
		writeSave(t, cfg, "run1.cogsav", sampleState)

		added, err := svc.Rescan(context.Background())
		require.NoError(t, err)
		require.Equal(t, 1, added)

		added, err = svc.Rescan(context.Background())
		require.NoError(t, err)
		assert.Zero(t, added)
	})

	t.Run("MissingSavesFolderIsEmpty", func(t *testing.T) {
		svc, cfg := newTestService(t)
		require.NoError(t, os.RemoveAll(cfg.SavesPath()))

		added, err := svc.Rescan(context.Background())

		require.NoError(t, err)
		assert.Zero(t, added)
	})
}

func TestResolve(t *testing.T) {
	svc, cfg := newTestService(t)
	path := writeSave(t, cfg, "run1.cogsav", sampleState)
	rec, err := svc.Register(context.Background(), path, "before boss", models.SourceCreate)
	require.NoError(t, err)

	t.Run("ByID", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), rec.ID)
		require.NoError(t, err)
		assert.Equal(t, rec.FileName, got.FileName)
	})

	t.Run("ByFileName", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), "run1.cogsav")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("ByNameWithoutExtension", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), "run1")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("ByLabel", func(t *testing.T) {
		got, err := svc.Resolve(context.Background(), "before boss")
		require.NoError(t, err)
		assert.Equal(t, rec.ID, got.ID)
	})

	t.Run("UnknownReference", func(t *testing.T) {
		_, err := svc.Resolve(context.Background(), "nonexistent")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nonexistent")
	})
}

func TestRemove(t *testing.T) {
	svc, cfg := newTestService(t)
	path := writeSave(t, cfg, "run1.cogsav", sampleState)
	_, err := svc.Register(context.Background(), path, "", models.SourceCreate)
	require.NoError(t, err)

	require.NoError(t, svc.Remove(context.Background(), "run1.cogsav"))

	rec, err := svc.Get(context.Background(), "run1.cogsav")
	require.NoError(t, err)
	assert.Nil(t, rec)

	// Removing an uncataloged file is quiet.
	assert.NoError(t, svc.Remove(context.Background(), "never-was.cogsav"))
}

func TestSaveKey(t *testing.T) {
	svc, cfg := newTestService(t)

	t.Run("RelativeInsideSavesFolder", func(t *testing.T) {
		key := svc.SaveKey(filepath.Join(cfg.SavesPath(), "auto", "x.cogsav"))
		assert.Equal(t, "auto/x.cogsav", key)
	})

	t.Run("OutsideFallsBackToBase", func(t *testing.T) {
		key := svc.SaveKey(filepath.Join(cfg.GameDir(), "quicksave.cogsav"))
		assert.Equal(t, "quicksave.cogsav", key)
	})

	t.Run("PathForInverts", func(t *testing.T) {
		rec := &models.SaveRecord{FileName: "auto/x.cogsav"}
		assert.Equal(t, filepath.Join(cfg.SavesPath(), "auto", "x.cogsav"), svc.PathFor(rec))
	})
}

func TestWithoutDatabase(t *testing.T) {
	svc := catalog.NewService(nil, savefile.Config{}, zap.NewNop())

	assert.False(t, svc.Ready())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoCatalog)

	_, err = svc.Register(context.Background(), "x", "", models.SourceCreate)
	assert.ErrorIs(t, err, catalog.ErrNoCatalog)

	_, err = svc.Rescan(context.Background())
	assert.ErrorIs(t, err, catalog.ErrNoCatalog)
}
