// Package savefile knows the on-disk shape of a Choice of Games save.
//
// # The live save
//
// Engine builds keep exactly one persistent slot per game, a file named
// storePS<gamename>PSstate in the game's remote-storage directory. Every
// higher-level operation in this tool is some arrangement of copying that
// file around, so the primitives live here: name validation, atomic
// mtime-preserving copies and checksums.
//
// # The state object
//
// The live save embeds the engine's JSON state, wrapped in storage framing
// that varies between builds. ExtractState tolerates the framing and hands
// back the bare object; Summarize pulls out the fields worth showing to a
// player (character name, scene, line, version). Field lookups go through
// gjson so the blob is never re-encoded just to read from it.
//
// # Slot layout
//
// Config derives every path from the selected live save: a saves folder next
// to it for permanent copies, quicksave.cogsav beside it, an auto folder for
// watcher snapshots and the catalog database inside the saves folder.
package savefile
