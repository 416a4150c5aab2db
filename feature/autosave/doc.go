// Package autosave snapshots the live save automatically.
//
// A watcher on the live save's directory picks up the engine's write
// bursts; once a burst settles, the file is copied into saves/auto under
// a timestamped name and registered in the catalog with source
// "autosave". The same Snapshot entry point backs the safety copies other
// features take before risky operations, so everything lands in one
// retention ring.
//
// # Retention
//
// Only the newest game.autosave_keep snapshots are kept; older ones are
// removed after each snapshot and on demand via Prune. Order comes from
// the file names: the stamp layout sorts lexicographically, and the copy
// preserves the live save's mtime, which says when the engine wrote the
// save rather than when the snapshot was taken.
package autosave
