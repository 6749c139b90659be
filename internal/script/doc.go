// Package script runs user Lua scripts against the board.
//
// Scripts are sandboxed: only the base, table, string, and math
// libraries are open, the load family is removed, and there is no
// require, io, or os. A board module exposes the canvas operations a
// script may perform; everything it creates lands in the same scene
// and history the interactive surface uses, so one script run undoes
// as one step.
//
// The engine shares the editor's single-goroutine confinement: run
// scripts only from the goroutine that owns the editor.
package script
