// Package backup copies permanent saves to and from the S3 vault.
//
// Objects live under "<game>/saves/" using the same keys as the saves
// folder, so "auto/x.cogsav" on disk becomes
// "zombies/saves/auto/x.cogsav" in the bucket. Push uploads saves the
// vault is missing or holds at a different size; Pull downloads saves
// the folder is missing and never overwrites a local file. The vault is
// a copy of the saves folder, not the other way around.
//
// The whole feature is gated on storage.enabled and stays off by
// default.
package backup
