// Package catalog keeps the database of known saves for the selected game.
//
// The catalog is bookkeeping, not storage. Save files on disk stay the source
// of truth; the catalog remembers what was saved when, for which character and
// scene, and what the file hashed to at registration time. That is what lets
// the rest of the tool list saves with context, resolve loose references
// ("run1", a label, a record id) to files, and detect files that changed or
// vanished behind its back.
//
// # Database
//
// Records live in a SQLite file inside the saves folder by default
// (saves/catalog.db), one database per game. A MySQL backend can be configured
// instead when several machines share one catalog.
//
// # Rescan
//
// Saves created outside the tool (copied in by hand, synced from another
// machine) are picked up by Rescan, which walks the saves folder and registers
// unknown .cogsav files with whatever character and scene their state parses
// to, under the "import" source.
package catalog
