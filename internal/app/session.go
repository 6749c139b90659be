package app

import (
	"errors"
	"fmt"
	"time"

	"glyphboard/internal/config"
	"glyphboard/internal/export"
	"glyphboard/internal/scene"
	"glyphboard/internal/store"
)

// errNoBoardPath indicates a board operation with no resolved path.
var errNoBoardPath = errors.New("no board path")

// loadBoard installs the persisted board document, when one exists.
func (app *Application) loadBoard() error {
	if app.boardPath == "" {
		return nil
	}
	s, err := store.LoadBoard(app.boardPath)
	if err != nil {
		return NewOperationError("load board", app.boardPath, err)
	}
	if s == nil {
		return nil
	}
	app.editor.ReplaceScene(s)
	app.log.Info("board loaded from %s (%d arrows, %d symbols)",
		app.boardPath, s.ArrowCount(), s.SymbolCount())
	return nil
}

// SaveBoard persists the board document to the resolved board path.
func (app *Application) SaveBoard() error {
	if app.boardPath == "" {
		return errNoBoardPath
	}
	if err := store.SaveBoard(app.editor.Scene(), app.boardPath); err != nil {
		return NewOperationError("save board", app.boardPath, err)
	}
	return nil
}

// autosave persists the board on the autosave tick. A mid-gesture tick
// waits for the next one so a half-drawn stroke is never the saved
// state.
func (app *Application) autosave() {
	if app.editor.Gesturing() {
		return
	}
	if err := app.SaveBoard(); err != nil {
		app.log.Error("autosave failed: %v", err)
		return
	}
	app.metrics.RecordAutosave()
	app.log.Debug("autosaved to %s", app.boardPath)
}

// ExportPNG renders the board to a PNG file using the configured scale
// and background. An empty path picks a timestamped name in the working
// directory. Returns the path written.
func (app *Application) ExportPNG(path string) (string, error) {
	if path == "" {
		path = exportName("png")
	}
	opts := export.DefaultOptions()
	opts.Scale = app.cfg.Export.Scale
	opts.Background = colorFromTuple(app.cfg.Export.Background)
	if err := export.WritePNG(app.editor.Scene(), path, opts); err != nil {
		return "", NewOperationError("export png", path, err)
	}
	return path, nil
}

// ExportPDF renders the board to a single-page PDF. An empty path picks
// a timestamped name in the working directory. Returns the path written.
func (app *Application) ExportPDF(path string) (string, error) {
	if path == "" {
		path = exportName("pdf")
	}
	if err := export.WritePDF(app.editor.Scene(), path); err != nil {
		return "", NewOperationError("export pdf", path, err)
	}
	return path, nil
}

// ExportLibrary writes the key-bound symbol templates to a YAML library
// file.
func (app *Application) ExportLibrary(path string) error {
	lib := store.BuildLibrary(app.editor.Scene())
	if len(lib.Items) == 0 {
		return NewOperationError("export library", path, store.ErrEmptyLibrary)
	}
	if err := lib.Save(path); err != nil {
		return NewOperationError("export library", path, err)
	}
	return nil
}

// ImportLibrary installs templates from a YAML library file into the
// board, skipping keys already bound, and persists the board. Returns
// the number of templates installed.
func (app *Application) ImportLibrary(path string) (int, error) {
	lib, err := store.LoadLibrary(path)
	if err != nil {
		return 0, NewOperationError("import library", path, err)
	}
	n := lib.Install(app.editor.Scene())
	if n == 0 {
		return 0, nil
	}
	if err := app.SaveBoard(); err != nil && !errors.Is(err, errNoBoardPath) {
		return n, err
	}
	return n, nil
}

// runStartupScripts executes every script in the configured directory.
func (app *Application) runStartupScripts() {
	if app.scripts == nil {
		return
	}
	names, err := app.scripts.List()
	if err != nil {
		app.log.Warn("script directory unreadable: %v", err)
		return
	}
	if len(names) == 0 {
		return
	}
	if err := app.scripts.RunAll(); err != nil {
		app.log.Error("startup scripts: %v", err)
		return
	}
	app.metrics.RecordScriptRun()
	app.log.Info("ran %d startup scripts", len(names))
}

// runScripts re-runs the script directory on request from the chord.
func (app *Application) runScripts() {
	if app.scripts == nil {
		app.log.Info("scripting disabled: no script.dir configured")
		return
	}
	if err := app.scripts.RunAll(); err != nil {
		app.log.Error("scripts: %v", err)
		return
	}
	app.metrics.RecordScriptRun()
}

// reloadConfig re-reads the config file after a watcher ping and applies
// the live-applicable settings: stroke style, history depth, export
// options. Mirror, script, and autosave topology changes need a restart.
func (app *Application) reloadConfig() {
	path := app.opts.ConfigPath
	if path == "" {
		path = defaultConfigPath()
	}
	cfg, err := config.Load(path)
	if err != nil {
		app.log.Warn("config reload rejected: %v", err)
		return
	}
	if cfg == nil {
		return
	}
	app.cfg = cfg
	app.editor.SetStrokeStyle(cfg.StrokeStyle())
	app.editor.History().SetMaxDepth(cfg.History.Depth)
	app.log.Info("config reloaded from %s", path)
}

// exportName builds a timestamped file name in the working directory.
func exportName(ext string) string {
	return fmt.Sprintf("glyphboard-%s.%s", time.Now().Format("20060102-150405"), ext)
}

// colorFromTuple converts a config RGBA tuple to a scene color.
func colorFromTuple(t [4]float64) scene.Color {
	return scene.Color{R: t[0], G: t[1], B: t[2], A: t[3]}
}
