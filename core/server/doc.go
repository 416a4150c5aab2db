// Package server holds the configuration of the local HTTP surface.
//
// The API exists so quicksave and quickload can be bound to hotkeys or a
// macro pad while the game window keeps focus. It is a loopback service by
// default and optionally protected with an api key (see the middleware
// package).
package server
