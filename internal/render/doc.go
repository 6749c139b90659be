// Package render coordinates repainting between the interaction core
// and a drawing backend.
//
// The editor runs confined to the event loop goroutine. Backends and
// mirrors run elsewhere. The only object shared across that boundary
// is Signal, a coalescing repaint notifier: any number of Notify calls
// between two paints collapse into a single wakeup, so a burst of
// pointer-move events costs one frame, not hundreds.
//
// A View produces immutable Frame values on demand. The event loop
// owns the View and builds frames only on its own goroutine; everyone
// else consumes the built Frame.
package render
