// Package config assembles the application configuration from several layers.
//
// # Layers
//
// Values are resolved in ascending precedence:
//
//  1. defaults declared as `default:` struct tags on the section structs
//  2. the persisted settings file (config.yaml in the user config dir)
//  3. environment variables, optionally loaded from a local .env file
//
// Nested keys map to environment variables through a dot-to-underscore
// replacer, so `game.save_location` is overridden by GAME_SAVE_LOCATION.
//
// # Persisted settings
//
// The settings file replaces per-user state the tool needs across runs, most
// importantly the selected live save file. SaveSelection rewrites only the
// keys the tool owns and leaves manual additions in place. The directory is
// platform dependent (os.UserConfigDir) and can be pinned with
// COGSAVER_CONFIG_DIR, which tests rely on.
package config
