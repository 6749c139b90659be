package script

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"glyphboard/internal/editor"
)

// DefaultTimeout bounds a single script run when Options.Timeout is
// zero. Lua that is still going when the deadline passes is aborted.
const DefaultTimeout = 2 * time.Second

var (
	// ErrEngineClosed is returned when running on a closed engine.
	ErrEngineClosed = errors.New("script engine closed")

	// ErrBoardBusy is returned when a script run is requested while a
	// pointer gesture or key prompt is still in progress.
	ErrBoardBusy = errors.New("board busy: interaction in progress")
)

// Options configures an Engine.
type Options struct {
	// Dir is where RunFile resolves relative names and where List and
	// RunAll look for scripts. Empty disables directory lookup.
	Dir string

	// Timeout bounds each script run. Zero means DefaultTimeout.
	Timeout time.Duration

	// OnChange is invoked after a run that mutated the board, so the
	// render and mirror surfaces can pick up the new frame.
	OnChange func()
}

// Engine owns one sandboxed Lua state bound to one editor.
type Engine struct {
	L        *lua.LState
	editor   *editor.Editor
	board    *boardModule
	dir      string
	timeout  time.Duration
	onChange func()

	mu     sync.Mutex
	closed bool
}

// New creates a sandboxed engine with the board module registered.
func New(ed *editor.Editor, opts Options) *Engine {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	openSafeLibraries(L)
	removeLoaders(L)

	e := &Engine{
		L:        L,
		editor:   ed,
		dir:      opts.Dir,
		timeout:  opts.Timeout,
		onChange: opts.OnChange,
	}
	e.board = newBoardModule(ed)
	e.board.register(L)
	return e
}

// openSafeLibraries opens only the side-effect-free standard libraries.
// io, os, debug, and package stay closed, so scripts have no file,
// process, or module access at all.
func openSafeLibraries(L *lua.LState) {
	lua.OpenBase(L)
	lua.OpenTable(L)
	lua.OpenString(L)
	lua.OpenMath(L)
}

// removeLoaders strips the base-library functions that evaluate
// arbitrary chunks, closing the last route around the sandbox.
func removeLoaders(L *lua.LState) {
	for _, name := range []string{"dofile", "loadfile", "load", "loadstring"} {
		L.SetGlobal(name, lua.LNil)
	}
}

// RunString executes a chunk of Lua source.
func (e *Engine) RunString(code string) error {
	return e.run("inline", func() error { return e.L.DoString(code) })
}

// RunFile executes one script. Relative names resolve against the
// script directory.
func (e *Engine) RunFile(name string) error {
	path := name
	if !filepath.IsAbs(path) && e.dir != "" {
		path = filepath.Join(e.dir, name)
	}
	return e.run(name, func() error { return e.L.DoFile(path) })
}

// List returns the script names in the script directory, sorted. A
// missing directory is an empty list, not an error.
func (e *Engine) List() ([]string, error) {
	if e.dir == "" {
		return nil, nil
	}
	entries, err := os.ReadDir(e.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, ent := range entries {
		if ent.IsDir() || filepath.Ext(ent.Name()) != ".lua" {
			continue
		}
		names = append(names, ent.Name())
	}
	sort.Strings(names)
	return names, nil
}

// RunAll executes every script in the directory in name order. A
// failing script does not stop the ones after it; the errors come back
// joined.
func (e *Engine) RunAll() error {
	names, err := e.List()
	if err != nil {
		return err
	}
	var errs []error
	for _, name := range names {
		if err := e.RunFile(name); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// run executes fn under the sandbox deadline with the board module
// scoped to one undo unit. A run aborted mid-script may leave partial
// mutations; they undo together with whatever the script finished.
func (e *Engine) run(name string, fn func() error) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.editor.State() != editor.StateIdle || e.editor.Gesturing() {
		return ErrBoardBusy
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.timeout)
	defer cancel()
	e.L.SetContext(ctx)
	defer e.L.RemoveContext()

	e.board.beginRun()
	err := e.recovered(fn)
	if e.board.endRun() && e.onChange != nil {
		e.onChange()
	}

	if err != nil {
		return fmt.Errorf("script %s: %w", name, err)
	}
	return nil
}

// recovered converts a Lua runtime panic into an error.
func (e *Engine) recovered(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("lua panic: %v", r)
		}
	}()
	return fn()
}

// Closed reports whether Close has run.
func (e *Engine) Closed() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.closed
}

// Close releases the Lua state. Further runs return ErrEngineClosed.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.L.Close()
	e.closed = true
	return nil
}
