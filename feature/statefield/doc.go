// Package statefield reads and edits fields inside the live save's state.
//
// A CoG save is a small JSON document wrapped in storage framing. This
// feature exposes that document through gjson paths: Show renders the
// summary plus a flat table of everything under "stats", Get looks up one
// path, Set writes one and Unset deletes one. Values given to Set are
// coerced to the JSON type they read as (bool, integer, float, else
// string) unless the caller forces string.
//
// # Safety
//
// Writes never touch bytes outside the edited path: the document is
// rewritten with sjson, which preserves the untouched remainder, and the
// framing before and after the JSON window is spliced back verbatim. The
// file is replaced atomically via a rename, and a snapshot is taken first
// when a Snapshotter is wired.
//
// Unknown paths are an error unless the caller explicitly asks to create
// them, so a typo cannot silently grow the state.
package statefield
