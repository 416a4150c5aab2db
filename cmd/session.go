package cmd

import (
	"os"

	"cogsaver/core/config"
	"cogsaver/core/database"
	"cogsaver/core/logger"
	"cogsaver/core/savefile"
	"cogsaver/core/storage"
	"cogsaver/feature/autosave"
	"cogsaver/feature/catalog"
	"cogsaver/feature/slots"
	"cogsaver/feature/statefield"

	"go.uber.org/zap"
)

// setup loads the configuration and builds the logger every command entry
// point shares.
func setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, err
	}

	logg, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	return cfg, logg, nil
}

// openCatalog connects the save catalog for the selected game. The default
// backend is a sqlite file inside the saves folder, so the folder has to
// exist before the driver can create the database file. A failed connection
// degrades to a not-ready service; slot operations keep working without it.
func openCatalog(game savefile.Config, dbCfg database.Config, logg *zap.Logger) *catalog.Service {
	if !game.Selected() {
		return catalog.NewService(nil, game, logg)
	}

	if dbCfg.Driver == database.DriverSQLite && dbCfg.Name == "" {
		dbCfg.Name = game.CatalogPath()
	}

	if err := os.MkdirAll(game.SavesPath(), 0o755); err != nil {
		logg.Warn("Cannot create saves folder", zap.String("dir", game.SavesPath()), zap.Error(err))
		return catalog.NewService(nil, game, logg)
	}

	db, err := database.Connect(dbCfg)
	if err != nil {
		logg.Warn("Optional catalog connection failed", zap.Error(err))
		return catalog.NewService(nil, game, logg)
	}

	svc := catalog.NewService(db, game, logg)
	if err := svc.Migrate(); err != nil {
		logg.Warn("Catalog migration failed", zap.Error(err))
		return catalog.NewService(nil, game, logg)
	}

	return svc
}

// buildSlots wires a slot service backed by the catalog, with autosave
// snapshots guarding every overwrite of the live save.
func buildSlots(game savefile.Config, dbCfg database.Config, logg *zap.Logger) *slots.Service {
	cat := openCatalog(game, dbCfg, logg)
	auto := autosave.NewService(game, cat, logg)
	return slots.NewService(game, cat, auto, logg)
}

// buildStateEditor wires the state field editor with the same autosave
// snapshot guard the slot service uses.
func buildStateEditor(game savefile.Config, dbCfg database.Config, logg *zap.Logger) *statefield.Service {
	cat := openCatalog(game, dbCfg, logg)
	auto := autosave.NewService(game, cat, logg)
	return statefield.NewService(game, auto, logg)
}

// buildVault creates the vault client when backups are enabled. A nil client
// is the normal local-only mode; vault-backed operations report ErrDisabled.
func buildVault(cfg storage.Config, logg *zap.Logger) storage.Client {
	if !cfg.Enabled {
		return nil
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		logg.Fatal("Failed to create vault client", zap.Error(err))
	}

	return client
}
