// Package backend is the terminal front-end: a tcell screen that turns
// key and mouse input into the normalized input events the editor
// consumes, and rasterizes editor frames into a cell grid.
//
// The terminal pumps events on its own goroutine into a channel; the
// owner selects between that channel and the render signal, pulls a
// frame on wakeups, and hands it back to Render. Rasterization itself
// is pure (see Grid), so it is tested without a live terminal.
package backend
