// Package app wires the glyphboard components together and runs the
// application lifecycle: configuration, the editor core, the terminal
// front-end, autosave, the websocket mirror, and the Lua script host.
//
// # Event loop
//
// Run owns a single event loop goroutine. The editor, scene, history,
// and view transform are confined to it; terminal input, repaint
// signals, autosave ticks, and config-reload pings all arrive as
// channel cases in one select. Repaints are pull-based: the editor
// bumps a coalescing signal, the loop builds one immutable frame and
// hands it to the terminal and the mirror.
//
// # Input policy
//
// The loop is the upstream input filter the canvas core relies on.
// Keys reach the editor only as ASCII letters, digits, Escape, and
// Backspace; Space cycles the canvas mode, Tab flips sticky symbol
// capture, and primary-modifier chords (save, export, clear, scripts,
// quit) are consumed here. Bare clicks are buffered for the double-tap
// window so a double-tap cycles the canvas mode without leaving two
// stray taps on the canvas; any other input flushes the buffer in
// arrival order first.
package app
