// Package watcher turns raw filesystem events into settled-write callbacks.
//
// The autosave feature builds on it: the engine rewrites the live save in
// bursts, and snapshotting every intermediate write would both thrash the
// disk and capture torn states. FileWatcher watches the save's directory,
// filters events down to the save itself and fires its callback once per
// burst, after the file has been quiet for the configured debounce window.
package watcher
