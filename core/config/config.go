package config

import (
	"reflect"
	"strings"

	"cogsaver/core/database"
	"cogsaver/core/logger"
	"cogsaver/core/savefile"
	"cogsaver/core/server"
	"cogsaver/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the local HTTP server.
	Server server.Config `mapstructure:"server"`
	// Storage holds configuration for the backup vault (S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the save catalog database.
	Database database.Config `mapstructure:"database"`
	// Game holds configuration for the managed save file and its slots.
	Game savefile.Config `mapstructure:"game"`
}

// LoadConfig loads configuration from defaults, the persisted settings file,
// environment variables and an optional .env file, in ascending precedence.
func LoadConfig(path string) (*Config, error) {
	// 1. Pull in a .env next to the working directory, when present
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// A missing .env is fine; most installs run without one
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Walk the struct tags and register every key with its default
	bindValues(v, Config{}, "")

	// 2. Merge the persisted settings file (selected game, tweaks). A missing
	// file is the normal first-run state.
	if settingsPath, err := SettingsPath(); err == nil {
		v.SetConfigFile(settingsPath)
		_ = v.MergeInConfig()
	}

	// 3. Environment wins over everything (GAME_SAVE_LOCATION -> game.save_location)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues walks the config struct by reflection and registers each field's
// 'default' tag under its dotted 'mapstructure' key.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")
		if tag == "" {
			continue
		}

		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// Nested structs become nested keys
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Even empty defaults are set; AutomaticEnv only sees registered keys
		v.SetDefault(key, defaultValue)
	}
}
