package render

import "glyphboard/internal/editor"

// View is anything that can describe itself as a drawable frame.
// Frame must be called only on the goroutine that owns the view; the
// returned value is immutable and may cross goroutines freely.
type View interface {
	Frame() editor.Frame
}
