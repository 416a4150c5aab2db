// Package slots is the save manager proper: quicksave, quickload, named
// saves, restores and deletion for the selected game's live save file.
//
// Choice of Games titles keep exactly one save per playthrough, which the
// game overwrites in place. Slots work by copying that live file around:
//
//   - the quicksave slot is a single file beside the live save,
//     overwritten by every quicksave
//   - permanent saves live in the saves folder, one file each, named by
//     the player or suggested from the state inside the file
//     ("<character> <yy.mm.dd HH.MM> <scene>")
//
// Copies preserve the source's modification time, so cloud sync still sees
// the restored file the way the game last wrote it.
//
// # Restore safety
//
// Restoring overwrites the live save, the one file the game cares about.
// When a snapshotter is wired in, the live save is snapshotted into the
// autosave ring first, so even a restore of the wrong slot loses nothing.
//
// # References
//
// Restore and Delete accept loose references and resolve them in order:
// catalog record id, file name (with or without extension), label, and
// finally an explicit path. Deletion refuses paths outside the saves
// folder; the live save and the quicksave slot are not deletable through
// this package.
package slots
