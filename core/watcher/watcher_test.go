package watcher_test

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"cogsaver/core/watcher"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileWatcher_SettledWrite(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "storePSxPSstate")
	require.NoError(t, os.WriteFile(live, []byte("v0"), 0o644))

	var settled atomic.Int32
	w, err := watcher.New(live, 200*time.Millisecond, func(ctx context.Context, path string) {
		assert.Equal(t, live, path)
		settled.Add(1)
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()
	assert.True(t, w.IsWatching())

	// A burst of writes should settle into a single callback
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(live, []byte("v1"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	require.Eventually(t, func() bool {
		return settled.Load() == 1
	}, 3*time.Second, 50*time.Millisecond, "burst did not settle into one callback")

	// Quiet period, then another write settles separately
	require.NoError(t, os.WriteFile(live, []byte("v2"), 0o644))
	require.Eventually(t, func() bool {
		return settled.Load() == 2
	}, 3*time.Second, 50*time.Millisecond)

	stats := w.GetStats()
	assert.GreaterOrEqual(t, stats.WritesSeen, 2)
	assert.Equal(t, 2, stats.Settled)
}

func TestFileWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "storePSxPSstate")
	require.NoError(t, os.WriteFile(live, []byte("v0"), 0o644))

	var settled atomic.Int32
	w, err := watcher.New(live, 100*time.Millisecond, func(ctx context.Context, path string) {
		settled.Add(1)
	}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	defer w.Stop()

	// Writes to other files in the directory must not trigger the callback
	require.NoError(t, os.WriteFile(filepath.Join(dir, "quicksave.cogsav"), []byte("x"), 0o644))

	time.Sleep(500 * time.Millisecond)
	assert.Equal(t, int32(0), settled.Load())
	assert.Equal(t, 0, w.GetStats().WritesSeen)
}

func TestFileWatcher_StartStop(t *testing.T) {
	dir := t.TempDir()
	live := filepath.Join(dir, "storePSxPSstate")
	require.NoError(t, os.WriteFile(live, []byte("v0"), 0o644))

	w, err := watcher.New(live, 100*time.Millisecond, func(ctx context.Context, path string) {}, zap.NewNop())
	require.NoError(t, err)

	require.NoError(t, w.Start(context.Background()))
	// Second start is a no-op
	require.NoError(t, w.Start(context.Background()))
	assert.True(t, w.IsWatching())

	w.Stop()
	assert.False(t, w.IsWatching())
	// Second stop is a no-op
	w.Stop()
}

func TestFileWatcher_MissingDirFailsStart(t *testing.T) {
	w, err := watcher.New(filepath.Join(t.TempDir(), "absent", "storePSxPSstate"),
		100*time.Millisecond, func(ctx context.Context, path string) {}, zap.NewNop())
	require.NoError(t, err)

	assert.Error(t, w.Start(context.Background()))
	assert.False(t, w.IsWatching())
}
