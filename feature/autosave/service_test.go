package autosave

import (
	"context"
	"os"
	"path/filepath"
	"strings"
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

func newTestService(t *testing.T, keep int) (*Service, savefile.Config, *catalog.Service) {
	t.Helper()

	dir := t.TempDir()
	live := filepath.Join(dir, "storePSzombiesPSstate")
	require.NoError(t, os.WriteFile(live, []byte(sampleState), 0o644))

	cfg := savefile.Config{
		SaveLocation:       live,
		SavesDir:           "saves",
		QuicksaveName:      "quicksave.cogsav",
		SaveExt:            ".cogsav",
		AutosaveKeep:       keep,
		AutosaveDebounceMs: 50,
	}

	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	cat := catalog.NewService(db, cfg, zap.NewNop())
	require.NoError(t, cat.Migrate())

	return NewService(cfg, cat, zap.NewNop()), cfg, cat
}

func snapshotCount(t *testing.T, cfg savefile.Config) int {
	t.Helper()
	entries, err := os.ReadDir(cfg.AutosavePath())
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)

	count := 0
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), cfg.SaveExt) {
			count++
		}
	}
	return count
}

func TestSnapshot(t *testing.T) {
	t.Run("CopiesAndCatalogs", func(t *testing.T) {
		svc, cfg, cat := newTestService(t, 20)

		path, err := svc.Snapshot(context.Background(), "autosave")

		require.NoError(t, err)
		assert.Equal(t, cfg.AutosavePath(), filepath.Dir(path))
		data, readErr := os.ReadFile(path)
		require.NoError(t, readErr)
		assert.Equal(t, sampleState, string(data))

		rec, getErr := cat.Get(context.Background(), cat.SaveKey(path))
		require.NoError(t, getErr)
		require.NotNil(t, rec)
		assert.Equal(t, models.SourceAutosave, rec.Source)
	})

	t.Run("BackToBackSnapshotsStayDistinct", func(t *testing.T) {
		svc, cfg, _ := newTestService(t, 20)

		first, err := svc.Snapshot(context.Background(), "autosave")
		require.NoError(t, err)
		second, err := svc.Snapshot(context.Background(), "autosave")
		require.NoError(t, err)

		assert.NotEqual(t, first, second)
		assert.Equal(t, 2, snapshotCount(t, cfg))
	})

	t.Run("AppliesRetention", func(t *testing.T) {
		svc, cfg, _ := newTestService(t, 1)

		_, err := svc.Snapshot(context.Background(), "autosave")
		require.NoError(t, err)
		_, err = svc.Snapshot(context.Background(), "autosave")
		require.NoError(t, err)

		assert.Equal(t, 1, snapshotCount(t, cfg))
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, zap.NewNop())
		_, err := svc.Snapshot(context.Background(), "autosave")
		assert.ErrorIs(t, err, savefile.ErrNoGame)
	})
}

func TestPrune(t *testing.T) {
	writeStamped := func(t *testing.T, svc *Service, cfg savefile.Config, names ...string) {
		t.Helper()
		require.NoError(t, os.MkdirAll(cfg.AutosavePath(), 0o755))
		for _, name := range names {
			path := filepath.Join(cfg.AutosavePath(), name)
			require.NoError(t, os.WriteFile(path, []byte(sampleState), 0o644))
			_, err := svc.catalog.Register(context.Background(), path, "", models.SourceAutosave)
			require.NoError(t, err)
		}
	}

	t.Run("RemovesOldestBeyondKeep", func(t *testing.T) {
		svc, cfg, cat := newTestService(t, 2)
		writeStamped(t, svc, cfg,
			"24.01.01 10.00.00.cogsav",
			"24.01.01 10.00.01.cogsav",
			"24.01.01 10.00.02.cogsav",
			"24.01.01 10.00.03.cogsav",
		)

		removed, err := svc.Prune(context.Background())

		require.NoError(t, err)
		assert.Equal(t, 2, removed)
		assert.NoFileExists(t, filepath.Join(cfg.AutosavePath(), "24.01.01 10.00.00.cogsav"))
		assert.NoFileExists(t, filepath.Join(cfg.AutosavePath(), "24.01.01 10.00.01.cogsav"))
		assert.FileExists(t, filepath.Join(cfg.AutosavePath(), "24.01.01 10.00.02.cogsav"))
		assert.FileExists(t, filepath.Join(cfg.AutosavePath(), "24.01.01 10.00.03.cogsav"))

		gone, getErr := cat.Get(context.Background(), "auto/24.01.01 10.00.00.cogsav")
		require.NoError(t, getErr)
		assert.Nil(t, gone)
		kept, getErr := cat.Get(context.Background(), "auto/24.01.01 10.00.03.cogsav")
		require.NoError(t, getErr)
		assert.NotNil(t, kept)
	})

	t.Run("KeepZeroDisablesRetention", func(t *testing.T) {
		svc, cfg, _ := newTestService(t, 0)
		writeStamped(t, svc, cfg,
			"24.01.01 10.00.00.cogsav",
			"24.01.01 10.00.01.cogsav",
			"24.01.01 10.00.02.cogsav",
		)

		removed, err := svc.Prune(context.Background())

		require.NoError(t, err)
		assert.Zero(t, removed)
		assert.Equal(t, 3, snapshotCount(t, cfg))
	})

	t.Run("MissingFolderIsFine", func(t *testing.T) {
		svc, _, _ := newTestService(t, 2)

		removed, err := svc.Prune(context.Background())

		require.NoError(t, err)
		assert.Zero(t, removed)
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, zap.NewNop())
		_, err := svc.Prune(context.Background())
		assert.ErrorIs(t, err, savefile.ErrNoGame)
	})
}

func TestStatus(t *testing.T) {
	svc, _, _ := newTestService(t, 5)

	st := svc.Status()
	assert.False(t, st.Watching)
	assert.Equal(t, 5, st.Keep)
	assert.Zero(t, st.Snapshots)
	assert.Empty(t, st.LastPath)

	_, err := svc.Snapshot(context.Background(), "autosave")
	require.NoError(t, err)

	st = svc.Status()
	assert.Equal(t, 1, st.Snapshots)
	assert.Equal(t, 1, st.SessionCount)
	assert.NotEmpty(t, st.LastPath)
	assert.NotEmpty(t, st.LastTime)
}

func TestWatcher(t *testing.T) {
	t.Run("SnapshotsSettledWrite", func(t *testing.T) {
		svc, cfg, _ := newTestService(t, 20)
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		require.NoError(t, svc.StartWatching(ctx))
		defer svc.StopWatching()
		assert.True(t, svc.Watching())

		require.NoError(t, os.WriteFile(cfg.SaveLocation, []byte(sampleState), 0o644))

		require.Eventually(t, func() bool {
			entries, err := os.ReadDir(cfg.AutosavePath())
			if err != nil {
				return false
			}
			for _, entry := range entries {
				if !entry.IsDir() && strings.HasSuffix(entry.Name(), cfg.SaveExt) {
					return true
				}
			}
			return false
		}, 5*time.Second, 50*time.Millisecond, "Settled write should produce a snapshot")
	})

	t.Run("StartTwiceIsIdempotent", func(t *testing.T) {
		svc, _, _ := newTestService(t, 20)
		ctx := context.Background()

		require.NoError(t, svc.StartWatching(ctx))
		defer svc.StopWatching()
		require.NoError(t, svc.StartWatching(ctx))
	})

	t.Run("NoGameSelected", func(t *testing.T) {
		svc := NewService(savefile.Config{}, nil, zap.NewNop())
		assert.ErrorIs(t, svc.StartWatching(context.Background()), savefile.ErrNoGame)
	})
}
