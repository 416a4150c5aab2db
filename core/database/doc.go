// Package database handles catalog database connections and schema inspection.
//
// It wraps GORM so the rest of the application never deals with DSNs or pool
// tuning. The default backend is a sqlite file living inside the game's saves
// folder, which keeps the catalog next to the files it describes. A mysql
// backend is available for setups that share one catalog across machines.
//
// # Connect
//
// Connect opens the configured backend, silences GORM's own logger and
// verifies the connection with a bounded ping before handing it out. Callers
// treat the database as optional: a save manager must keep working when the
// catalog cannot be opened.
//
// # Schema inspection
//
// GetTableColumns returns the live column definitions of a table. The
// integrity checks use it to confirm the catalog schema matches the model
// this build expects, on both sqlite (PRAGMA table_info) and mysql
// (SHOW COLUMNS).
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("running without a catalog", zap.Error(err))
//	}
package database
