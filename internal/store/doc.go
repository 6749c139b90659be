// Package store persists boards and symbol libraries.
//
// Boards are saved as versioned JSON documents containing the full
// scene: arrows, symbols, and key bindings. Saves are atomic (temp
// file plus rename) so a crash mid-write never corrupts the previous
// save. Loading a path that does not exist returns a nil scene and no
// error.
//
// Symbol libraries are YAML files holding reusable symbol definitions
// with their optional key bindings, independent of any board. A
// library built from one board can be installed into another.
package store
