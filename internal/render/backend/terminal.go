package backend

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"glyphboard/internal/editor"
)

// Terminal drives a tcell screen: it pumps input events into a channel
// and blits rasterized frames. Events flow on the pump goroutine;
// Render is called by the owner's event loop. tcell screens tolerate
// that split, and the mutex keeps our own grid reuse safe besides.
type Terminal struct {
	screen tcell.Screen
	events chan Event
	mouse  mouseState

	mu   sync.Mutex
	grid *Grid
}

// NewTerminal allocates a terminal over a fresh tcell screen.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Terminal{
		screen: screen,
		events: make(chan Event, 32),
	}, nil
}

// Init takes over the terminal and starts the event pump. Callers must
// Fini before exiting, or the terminal is left raw.
func (t *Terminal) Init() error {
	if err := t.screen.Init(); err != nil {
		return err
	}
	t.screen.EnableMouse()
	t.screen.HideCursor()
	t.screen.Clear()

	go t.pump()
	return nil
}

// Fini restores the terminal. The event channel closes once the pump
// drains.
func (t *Terminal) Fini() {
	t.screen.Fini()
}

// Events is the stream of normalized input events. It closes after
// Fini.
func (t *Terminal) Events() <-chan Event {
	return t.events
}

// Size returns the screen dimensions.
func (t *Terminal) Size() (int, int) {
	return t.screen.Size()
}

// Render rasterizes the frame and blits it.
func (t *Terminal) Render(f editor.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w, h := t.screen.Size()
	gw, gh := 0, 0
	if t.grid != nil {
		gw, gh = t.grid.Size()
	}
	if gw != w || gh != h {
		t.grid = NewGrid(w, h)
	}

	RenderFrame(f, t.grid)

	t.screen.Clear()
	t.grid.Each(func(x, y int, c Cell) {
		t.screen.SetContent(x, y, c.Rune, nil, c.Style)
	})
	t.screen.Show()
}

// pump converts tcell events until the screen is finalized.
func (t *Terminal) pump() {
	defer close(t.events)
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			return
		}
		switch e := ev.(type) {
		case *tcell.EventKey:
			if out, ok := convertKey(e); ok {
				t.events <- out
			}
		case *tcell.EventMouse:
			for _, out := range t.mouse.convert(e) {
				t.events <- out
			}
		case *tcell.EventResize:
			w, h := e.Size()
			t.screen.Sync()
			t.mouse.reset()
			t.events <- Event{Kind: EventResize, Width: w, Height: h}
		}
	}
}
