package slots

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogsaver/core/database"
	"cogsaver/core/savefile"
	"cogsaver/feature/catalog"
	"cogsaver/feature/catalog/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleState = `{"stats":{"name":"Talia"},"sceneName":"chapter_3","lineNum":42}`

type fakeSnapshotter struct {
	reasons []string
	fail    bool
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context, reason string) (string, error) {
	if f.fail {
		return "", assert.AnError
	}
	f.reasons = append(f.reasons, reason)
	return "auto/snap.cogsav", nil
}

func newTestService(t *testing.T) (*Service, savefile.Config, *fakeSnapshotter) {
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
	cat := catalog.NewService(db, cfg, zap.NewNop())
	require.NoError(t, cat.Migrate())

	snap := &fakeSnapshotter{}
	return NewService(cfg, cat, snap, zap.NewNop()), cfg, snap
}

func TestQuicksave(t *testing.T) {
	t.Run("CopiesLiveSaveIntoSlot", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)

		path, err := svc.Quicksave(context.Background())

		require.NoError(t, err)
		assert.Equal(t, cfg.QuicksavePath(), path)
		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, sampleState, string(data))
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, nil, zap.NewNop())

		_, err := svc.Quicksave(context.Background())

		assert.ErrorIs(t, err, ErrNoGame)
	})
}

func TestQuickload(t *testing.T) {
	t.Run("RoundTripsLiveSaveBytes", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)
		_, err := svc.Quicksave(context.Background())
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(cfg.SaveLocation, []byte(`{"dead":true}`), 0o644))

		require.NoError(t, svc.Quickload(context.Background()))

		data, err := os.ReadFile(cfg.SaveLocation)
		require.NoError(t, err)
		assert.Equal(t, sampleState, string(data))
	})

	t.Run("EmptySlotLeavesLiveSaveIntact", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)

		err := svc.Quickload(context.Background())

		assert.ErrorIs(t, err, ErrNoQuicksave)
		data, readErr := os.ReadFile(cfg.SaveLocation)
		require.NoError(t, readErr)
		assert.Equal(t, sampleState, string(data))
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, nil, zap.NewNop())
		assert.ErrorIs(t, svc.Quickload(context.Background()), ErrNoGame)
	})
}

func TestCreate(t *testing.T) {
	t.Run("SuggestsNameFromState", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		save, err := svc.Create(context.Background(), "")

		require.NoError(t, err)
		assert.True(t, len(save.FileName) > len(".cogsav"))
		assert.Contains(t, save.FileName, "Talia")
		assert.Contains(t, save.FileName, "chapter_3")
		assert.FileExists(t, save.Path)
		assert.True(t, save.Cataloged)
		assert.Equal(t, models.SourceCreate, save.Source)
	})

	t.Run("UsesGivenLabel", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		save, err := svc.Create(context.Background(), "before boss")

		require.NoError(t, err)
		assert.Equal(t, "before boss.cogsav", save.FileName)
		assert.Equal(t, "before boss", save.Label)
	})

	t.Run("SanitizesLabel", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		save, err := svc.Create(context.Background(), `run/one:two`)

		require.NoError(t, err)
		assert.Equal(t, "run-one-two.cogsav", save.FileName)
	})

	t.Run("NumbersCollisions", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		first, err := svc.Create(context.Background(), "my run")
		require.NoError(t, err)
		second, err := svc.Create(context.Background(), "my run")
		require.NoError(t, err)
		third, err := svc.Create(context.Background(), "my run")
		require.NoError(t, err)

		assert.Equal(t, "my run.cogsav", first.FileName)
		assert.Equal(t, "my run (2).cogsav", second.FileName)
		assert.Equal(t, "my run (3).cogsav", third.FileName)
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, nil, zap.NewNop())
		_, err := svc.Create(context.Background(), "x")
		assert.ErrorIs(t, err, ErrNoGame)
	})
}

func TestRestore(t *testing.T) {
	t.Run("ByLabelSnapshotsFirst", func(t *testing.T) {
		svc, cfg, snap := newTestService(t)
		_, err := svc.Create(context.Background(), "before boss")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(cfg.SaveLocation, []byte(`{"dead":true}`), 0o644))

		src, err := svc.Restore(context.Background(), "before boss")

		require.NoError(t, err)
		assert.Contains(t, src, "before boss.cogsav")
		data, readErr := os.ReadFile(cfg.SaveLocation)
		require.NoError(t, readErr)
		assert.Equal(t, sampleState, string(data))
		assert.Equal(t, []string{"pre-restore"}, snap.reasons)
	})

	t.Run("ByExplicitPath", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)
		outside := filepath.Join(t.TempDir(), "imported.cogsav")
		require.NoError(t, os.WriteFile(outside, []byte(`{"imported":true}`), 0o644))

		_, err := svc.Restore(context.Background(), outside)

		require.NoError(t, err)
		data, readErr := os.ReadFile(cfg.SaveLocation)
		require.NoError(t, readErr)
		assert.Equal(t, `{"imported":true}`, string(data))
	})

	t.Run("UnknownReference", func(t *testing.T) {
		svc, _, _ := newTestService(t)

		_, err := svc.Restore(context.Background(), "never-was")

		assert.ErrorIs(t, err, ErrSaveNotFound)
	})

	t.Run("WorksWithoutSnapshotter", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		svc.snap = nil
		_, err := svc.Create(context.Background(), "x")
		require.NoError(t, err)

		_, err = svc.Restore(context.Background(), "x")

		require.NoError(t, err)
	})
}

func TestList(t *testing.T) {
	t.Run("MergesDiskWithCatalog", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)
		created, err := svc.Create(context.Background(), "known")
		require.NoError(t, err)

		foreign := filepath.Join(cfg.SavesPath(), "foreign.cogsav")
		require.NoError(t, os.WriteFile(foreign, []byte(sampleState), 0o644))

		// Pin mtimes so the order is deterministic.
		old := time.Now().Add(-time.Hour)
		require.NoError(t, os.Chtimes(created.Path, old, old))

		saves, err := svc.List(context.Background())

		require.NoError(t, err)
		require.Len(t, saves, 2)
		assert.Equal(t, "foreign.cogsav", saves[0].FileName, "Newest file first")
		assert.False(t, saves[0].Cataloged)
		assert.Equal(t, "known.cogsav", saves[1].FileName)
		assert.True(t, saves[1].Cataloged)
		assert.Equal(t, "Talia", saves[1].Character)
		assert.Equal(t, "chapter_3", saves[1].Scene)
	})

	t.Run("FlagsDriftedFiles", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(context.Background(), "drifter")
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(created.Path, []byte(sampleState+" "), 0o644))

		saves, err := svc.List(context.Background())

		require.NoError(t, err)
		require.Len(t, saves, 1)
		assert.True(t, saves[0].Drifted)
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, nil, zap.NewNop())
		_, err := svc.List(context.Background())
		assert.ErrorIs(t, err, ErrNoGame)
	})
}

func TestDelete(t *testing.T) {
	t.Run("RemovesFileAndCatalogRow", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		created, err := svc.Create(context.Background(), "doomed")
		require.NoError(t, err)

		_, err = svc.Delete(context.Background(), "doomed")

		require.NoError(t, err)
		assert.NoFileExists(t, created.Path)
		rec, err := svc.catalog.Get(context.Background(), "doomed.cogsav")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("RefusesPathsOutsideSavesFolder", func(t *testing.T) {
		svc, cfg, _ := newTestService(t)

		_, err := svc.Delete(context.Background(), cfg.SaveLocation)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "refusing")
		assert.FileExists(t, cfg.SaveLocation)
	})

	t.Run("UnknownReference", func(t *testing.T) {
		svc, _, _ := newTestService(t)
		_, err := svc.Delete(context.Background(), "never-was")
		assert.ErrorIs(t, err, ErrSaveNotFound)
	})
}
