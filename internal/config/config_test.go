package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"glyphboard/internal/editor"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default() must validate: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing file must not error: %v", err)
	}
	if cfg != nil {
		t.Fatal("missing file must return nil config")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glyphboard.toml")
	body := `
[canvas]
mode = "move"

[stroke]
width = 4.5
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CanvasMode() != editor.ModeMove {
		t.Errorf("CanvasMode = %v, want move", cfg.CanvasMode())
	}
	if cfg.Stroke.Width != 4.5 {
		t.Errorf("Stroke.Width = %v, want 4.5", cfg.Stroke.Width)
	}
	// Everything the file does not mention keeps its default.
	if cfg.History.Depth != Default().History.Depth {
		t.Errorf("History.Depth = %d, want default %d", cfg.History.Depth, Default().History.Depth)
	}
	if cfg.Stroke.Color != Default().Stroke.Color {
		t.Errorf("Stroke.Color = %v, want default", cfg.Stroke.Color)
	}
}

func TestLoadParseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("canvas = {{"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *ParseError", err)
	}
	if pe.Path != path {
		t.Errorf("ParseError.Path = %q, want %q", pe.Path, path)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		setting string
	}{
		{"bad mode", func(c *Config) { c.Canvas.Mode = "paint" }, "canvas.mode"},
		{"zero depth", func(c *Config) { c.History.Depth = 0 }, "history.depth"},
		{"negative width", func(c *Config) { c.Stroke.Width = -1 }, "stroke.width"},
		{"color out of range", func(c *Config) { c.Stroke.Color[1] = 1.5 }, "stroke.color[1]"},
		{"autosave without path", func(c *Config) { c.Autosave.Enabled = true; c.Autosave.Path = "" }, "autosave.path"},
		{"mirror without listen", func(c *Config) { c.Mirror.Enabled = true; c.Mirror.Listen = "" }, "mirror.listen"},
		{"zero script timeout", func(c *Config) { c.Script.TimeoutMS = 0 }, "script.timeout_ms"},
		{"zero export scale", func(c *Config) { c.Export.Scale = 0 }, "export.scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidValue) {
				t.Fatalf("Validate() = %v, want ErrInvalidValue", err)
			}
			if !containsSetting(err, tt.setting) {
				t.Errorf("error %v does not mention %s", err, tt.setting)
			}
		})
	}
}

func containsSetting(err error, setting string) bool {
	return err != nil && strings.Contains(err.Error(), setting)
}

func TestValidateCollectsAllFailures(t *testing.T) {
	cfg := Default()
	cfg.Canvas.Mode = "spline"
	cfg.History.Depth = -3
	cfg.Export.Scale = -1

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate must fail")
	}
	for _, setting := range []string{"canvas.mode", "history.depth", "export.scale"} {
		if !containsSetting(err, setting) {
			t.Errorf("joined error missing %s: %v", setting, err)
		}
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved.toml")
	cfg := Default()
	cfg.Canvas.Mode = "erase"
	cfg.History.Depth = 17

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Canvas.Mode != "erase" || loaded.History.Depth != 17 {
		t.Errorf("round trip = %+v", loaded)
	}
}

func TestApplyEnvironmentOverrides(t *testing.T) {
	t.Setenv("GLYPHBOARD_MODE", "erase")
	t.Setenv("GLYPHBOARD_HISTORY_DEPTH", "7")
	t.Setenv("GLYPHBOARD_STROKE_WIDTH", "3.5")
	t.Setenv("GLYPHBOARD_PENCIL_ONLY", "true")

	cfg := Default()
	if err := cfg.ApplyEnvironment(); err != nil {
		t.Fatalf("ApplyEnvironment: %v", err)
	}
	if cfg.Canvas.Mode != "erase" {
		t.Errorf("Canvas.Mode = %q, want erase", cfg.Canvas.Mode)
	}
	if cfg.History.Depth != 7 {
		t.Errorf("History.Depth = %d, want 7", cfg.History.Depth)
	}
	if cfg.Stroke.Width != 3.5 {
		t.Errorf("Stroke.Width = %v, want 3.5", cfg.Stroke.Width)
	}
	if !cfg.Canvas.PencilOnly {
		t.Error("Canvas.PencilOnly must be set")
	}
}

func TestApplyEnvironmentRejectsBadValues(t *testing.T) {
	t.Setenv("GLYPHBOARD_HISTORY_DEPTH", "many")

	err := Default().ApplyEnvironment()
	if !errors.Is(err, ErrInvalidValue) {
		t.Fatalf("error = %v, want ErrInvalidValue", err)
	}
}

func TestLoadAppliesEnvironmentOverFile(t *testing.T) {
	t.Setenv("GLYPHBOARD_MODE", "move")

	path := filepath.Join(t.TempDir(), "glyphboard.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nmode = \"draw\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.CanvasMode() != editor.ModeMove {
		t.Errorf("CanvasMode = %v, want move (environment wins)", cfg.CanvasMode())
	}
}

func TestEditorConfigBridge(t *testing.T) {
	cfg := Default()
	cfg.History.Depth = 9
	cfg.Stroke.Width = 3
	cfg.Stroke.Color = [4]float64{1, 0, 0, 1}

	ec := cfg.EditorConfig()
	if ec.HistoryDepth != 9 {
		t.Errorf("HistoryDepth = %d, want 9", ec.HistoryDepth)
	}
	if ec.Stroke.Width != 3 {
		t.Errorf("Stroke.Width = %v, want 3", ec.Stroke.Width)
	}
	if ec.Stroke.Color.R != 1 || ec.Stroke.Color.G != 0 {
		t.Errorf("Stroke.Color = %+v, want red", ec.Stroke.Color)
	}
}

func TestWatcherFiresOnRewrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glyphboard.toml")
	if err := os.WriteFile(path, []byte("[canvas]\nmode = \"draw\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(path, []byte("[canvas]\nmode = \"move\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not fire on rewrite")
	}
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "glyphboard.toml")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := NewWatcher(path, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewWatcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("watcher must ignore sibling files")
	case <-time.After(300 * time.Millisecond):
	}
}
