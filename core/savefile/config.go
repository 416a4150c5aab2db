package savefile

import (
	"path/filepath"
	"time"
)

// Config describes the managed live save and the slot layout derived from it.
type Config struct {
	// SaveLocation is the absolute path of the game's live save file.
	// Empty means no game has been selected yet.
	SaveLocation string `mapstructure:"save_location" default:""`
	// SavesDir is the folder for permanent saves, created beside the live save.
	SavesDir string `mapstructure:"saves_dir" default:"saves"`
	// QuicksaveName is the file name of the quicksave slot, beside the live save.
	QuicksaveName string `mapstructure:"quicksave_name" default:"quicksave.cogsav"`
	// SaveExt is the extension enforced on permanent saves.
	SaveExt string `mapstructure:"save_ext" default:".cogsav"`
	// StrictSuffix rejects selections whose file name does not end in PSstate.
	StrictSuffix bool `mapstructure:"strict_suffix" default:"true"`
	// AutosaveKeep is how many automatic snapshots are retained.
	AutosaveKeep int `mapstructure:"autosave_keep" default:"20"`
	// AutosaveDebounceMs is how long a burst of writes must settle before the
	// watcher snapshots the live save.
	AutosaveDebounceMs int `mapstructure:"autosave_debounce_ms" default:"1500"`
}

// Selected reports whether a live save has been chosen.
func (c Config) Selected() bool {
	return c.SaveLocation != ""
}

// GameDir returns the directory containing the live save.
func (c Config) GameDir() string {
	return filepath.Dir(c.SaveLocation)
}

// SavesPath returns the permanent saves directory beside the live save.
func (c Config) SavesPath() string {
	return filepath.Join(c.GameDir(), c.SavesDir)
}

// QuicksavePath returns the quicksave slot beside the live save.
func (c Config) QuicksavePath() string {
	return filepath.Join(c.GameDir(), c.QuicksaveName)
}

// AutosavePath returns the directory for automatic snapshots.
func (c Config) AutosavePath() string {
	return filepath.Join(c.SavesPath(), "auto")
}

// CatalogPath returns the catalog database file inside the saves directory.
func (c Config) CatalogPath() string {
	return filepath.Join(c.SavesPath(), "catalog.db")
}

// Game returns a short identifier for the selected game, derived from the
// live save file name (storePS<gamename>PSstate -> <gamename>).
func (c Config) Game() string {
	if !c.Selected() {
		return "unknown"
	}

	name := filepath.Base(c.SaveLocation)
	name = trimAffix(name, "storePS", "PSstate")
	if name == "" {
		return "unknown"
	}
	return name
}

// Debounce returns the autosave debounce window as a duration.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.AutosaveDebounceMs) * time.Millisecond
}

func trimAffix(s, prefix, suffix string) string {
	if len(s) >= len(prefix) && s[:len(prefix)] == prefix {
		s = s[len(prefix):]
	}
	if len(s) >= len(suffix) && s[len(s)-len(suffix):] == suffix {
		s = s[:len(s)-len(suffix)]
	}
	return s
}
