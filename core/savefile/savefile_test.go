package savefile_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"cogsaver/core/savefile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	dir := t.TempDir()

	live := filepath.Join(dir, "storePSzombiesPSstate")
	require.NoError(t, os.WriteFile(live, []byte(`{"stats":{}}`), 0o644))

	other := filepath.Join(dir, "store.json")
	require.NoError(t, os.WriteFile(other, []byte(`{}`), 0o644))

	t.Run("AcceptsPSStateFile", func(t *testing.T) {
		assert.NoError(t, savefile.Validate(live, true))
	})

	t.Run("RejectsWrongSuffix", func(t *testing.T) {
		err := savefile.Validate(other, true)
		assert.ErrorIs(t, err, savefile.ErrNotPSState)
	})

	t.Run("LenientModeAcceptsAnyFile", func(t *testing.T) {
		assert.NoError(t, savefile.Validate(other, false))
	})

	t.Run("RejectsMissingFile", func(t *testing.T) {
		err := savefile.Validate(filepath.Join(dir, "absent"), true)
		assert.Error(t, err)
	})

	t.Run("RejectsDirectory", func(t *testing.T) {
		err := savefile.Validate(dir, false)
		assert.Error(t, err)
	})
}

func TestCopy(t *testing.T) {
	t.Run("PreservesBytesAndModTime", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")

		require.NoError(t, os.WriteFile(src, []byte("state-bytes"), 0o644))
		mtime := time.Now().Add(-48 * time.Hour).Truncate(time.Second)
		require.NoError(t, os.Chtimes(src, mtime, mtime))

		require.NoError(t, savefile.Copy(src, dst))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, []byte("state-bytes"), got)

		info, err := os.Stat(dst)
		require.NoError(t, err)
		assert.True(t, info.ModTime().Equal(mtime), "mtime not preserved: %v", info.ModTime())
	})

	t.Run("OverwritesExistingTarget", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		dst := filepath.Join(dir, "dst")

		require.NoError(t, os.WriteFile(src, []byte("new"), 0o644))
		require.NoError(t, os.WriteFile(dst, []byte("old-and-longer"), 0o644))

		require.NoError(t, savefile.Copy(src, dst))

		got, err := os.ReadFile(dst)
		require.NoError(t, err)
		assert.Equal(t, []byte("new"), got)
	})

	t.Run("MissingSourceFails", func(t *testing.T) {
		dir := t.TempDir()
		err := savefile.Copy(filepath.Join(dir, "absent"), filepath.Join(dir, "dst"))
		assert.Error(t, err)
	})

	t.Run("LeavesNoTempFileBehind", func(t *testing.T) {
		dir := t.TempDir()
		src := filepath.Join(dir, "src")
		require.NoError(t, os.WriteFile(src, []byte("x"), 0o644))
		require.NoError(t, savefile.Copy(src, filepath.Join(dir, "dst")))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 2)
	})
}

func TestChecksum(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "save")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := savefile.Checksum(path)
	require.NoError(t, err)
	// sha256("abc")
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", sum)

	_, err = savefile.Checksum(filepath.Join(dir, "absent"))
	assert.Error(t, err)
}

func TestConfigPaths(t *testing.T) {
	cfg := savefile.Config{
		SaveLocation:  filepath.Join("/games", "remote", "storePSdragonPSstate"),
		SavesDir:      "saves",
		QuicksaveName: "quicksave.cogsav",
	}

	assert.True(t, cfg.Selected())
	assert.Equal(t, filepath.Join("/games", "remote", "saves"), cfg.SavesPath())
	assert.Equal(t, filepath.Join("/games", "remote", "quicksave.cogsav"), cfg.QuicksavePath())
	assert.Equal(t, filepath.Join("/games", "remote", "saves", "auto"), cfg.AutosavePath())
	assert.Equal(t, filepath.Join("/games", "remote", "saves", "catalog.db"), cfg.CatalogPath())
	assert.Equal(t, "dragon", cfg.Game())

	t.Run("UnselectedGame", func(t *testing.T) {
		empty := savefile.Config{}
		assert.False(t, empty.Selected())
		assert.Equal(t, "unknown", empty.Game())
	})

	t.Run("ForeignFileName", func(t *testing.T) {
		cfg := savefile.Config{SaveLocation: "/tmp/somePSstate"}
		assert.Equal(t, "some", cfg.Game())
	})
}
