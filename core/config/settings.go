package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// EnvConfigDir overrides the platform config directory when set.
const EnvConfigDir = "COGSAVER_CONFIG_DIR"

const settingsFile = "config.yaml"

// SettingsDir returns the directory holding the persisted settings file.
func SettingsDir() (string, error) {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return dir, nil
	}

	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving user config dir: %w", err)
	}

	return filepath.Join(base, "cogsaver"), nil
}

// SettingsPath returns the full path of the persisted settings file.
func SettingsPath() (string, error) {
	dir, err := SettingsDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(dir, settingsFile), nil
}

// SaveSelection persists the selected live save path so the next run starts
// with the same game. Only the keys owned by the tool are written.
func SaveSelection(saveLocation string) error {
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating settings dir: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	// Keep whatever else the user put into the file; a missing or broken
	// file simply starts fresh.
	_ = v.ReadInConfig()

	v.Set("game.save_location", saveLocation)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing settings: %w", err)
	}

	return nil
}
