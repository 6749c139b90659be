package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"glyphboard/internal/editor"
	"glyphboard/internal/history"
	"glyphboard/internal/scene"
)

// Config holds the full glyphboard configuration.
type Config struct {
	Canvas   CanvasConfig   `toml:"canvas"`
	History  HistoryConfig  `toml:"history"`
	Stroke   StrokeConfig   `toml:"stroke"`
	Autosave AutosaveConfig `toml:"autosave"`
	Mirror   MirrorConfig   `toml:"mirror"`
	Script   ScriptConfig   `toml:"script"`
	Export   ExportConfig   `toml:"export"`
}

// CanvasConfig controls the interaction surface.
type CanvasConfig struct {
	// Mode is the starting canvas mode: draw, move, or erase.
	Mode string `toml:"mode"`

	// PencilOnly ignores pointer events that did not come from a
	// stylus. Backends without source discrimination deliver
	// everything regardless.
	PencilOnly bool `toml:"pencil_only"`
}

// HistoryConfig controls undo behavior.
type HistoryConfig struct {
	// Depth bounds the undo stack.
	Depth int `toml:"depth"`
}

// StrokeConfig sets the default stroke style.
type StrokeConfig struct {
	Width float64 `toml:"width"`

	// Color is an RGBA tuple with components in [0,1].
	Color [4]float64 `toml:"color"`
}

// AutosaveConfig controls periodic scene persistence.
type AutosaveConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`

	// IntervalSeconds is the time between saves.
	IntervalSeconds int `toml:"interval_seconds"`
}

// MirrorConfig controls the read-only websocket mirror.
type MirrorConfig struct {
	Enabled bool   `toml:"enabled"`
	Listen  string `toml:"listen"`

	// Announce publishes the mirror over mDNS so devices on the
	// local network can discover it.
	Announce bool `toml:"announce"`
}

// ScriptConfig controls the Lua scripting host.
type ScriptConfig struct {
	// Dir is scanned for *.lua scripts at startup. Empty disables
	// scripting.
	Dir string `toml:"dir"`

	// TimeoutMS bounds a single script run.
	TimeoutMS int `toml:"timeout_ms"`
}

// ExportConfig controls image and PDF export.
type ExportConfig struct {
	// Scale is the pixel density multiplier for raster export.
	Scale float64 `toml:"scale"`

	// Background is an RGBA tuple with components in [0,1].
	Background [4]float64 `toml:"background"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			Mode: editor.ModeDraw.String(),
		},
		History: HistoryConfig{
			Depth: history.DefaultMaxDepth,
		},
		Stroke: StrokeConfig{
			Width: scene.DefaultStrokeWidth,
			Color: [4]float64{0, 0, 0, 1},
		},
		Autosave: AutosaveConfig{
			IntervalSeconds: 30,
		},
		Mirror: MirrorConfig{
			Listen: "127.0.0.1:7420",
		},
		Script: ScriptConfig{
			TimeoutMS: 2000,
		},
		Export: ExportConfig{
			Scale:      2,
			Background: [4]float64{1, 1, 1, 1},
		},
	}
}

// Load reads and validates configuration from path. A missing file is
// not an error: Load returns (nil, nil) and the caller falls back to
// Default. Values absent from the file keep their defaults; GLYPHBOARD_*
// environment variables override the file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, &ParseError{
			Path:    path,
			Message: err.Error(),
			Err:     err,
		}
	}

	if err := cfg.ApplyEnvironment(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path as TOML.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file %s: %w", path, err)
	}
	return nil
}

// Validate checks every setting and reports all failures.
func (c *Config) Validate() error {
	var errs []error

	if _, ok := editor.ModeFromName(c.Canvas.Mode); !ok {
		errs = append(errs, &ValidationError{
			Setting: "canvas.mode",
			Message: "must be draw, move, or erase",
			Value:   c.Canvas.Mode,
		})
	}
	if c.History.Depth <= 0 {
		errs = append(errs, &ValidationError{
			Setting: "history.depth",
			Message: "must be positive",
			Value:   c.History.Depth,
		})
	}
	if c.Stroke.Width <= 0 {
		errs = append(errs, &ValidationError{
			Setting: "stroke.width",
			Message: "must be positive",
			Value:   c.Stroke.Width,
		})
	}
	errs = append(errs, validateColor("stroke.color", c.Stroke.Color)...)
	if c.Autosave.Enabled {
		if c.Autosave.Path == "" {
			errs = append(errs, &ValidationError{
				Setting: "autosave.path",
				Message: "required when autosave is enabled",
				Value:   c.Autosave.Path,
			})
		}
		if c.Autosave.IntervalSeconds <= 0 {
			errs = append(errs, &ValidationError{
				Setting: "autosave.interval_seconds",
				Message: "must be positive",
				Value:   c.Autosave.IntervalSeconds,
			})
		}
	}
	if c.Mirror.Enabled && c.Mirror.Listen == "" {
		errs = append(errs, &ValidationError{
			Setting: "mirror.listen",
			Message: "required when the mirror is enabled",
			Value:   c.Mirror.Listen,
		})
	}
	if c.Script.TimeoutMS <= 0 {
		errs = append(errs, &ValidationError{
			Setting: "script.timeout_ms",
			Message: "must be positive",
			Value:   c.Script.TimeoutMS,
		})
	}
	if c.Export.Scale <= 0 {
		errs = append(errs, &ValidationError{
			Setting: "export.scale",
			Message: "must be positive",
			Value:   c.Export.Scale,
		})
	}
	errs = append(errs, validateColor("export.background", c.Export.Background)...)

	return errors.Join(errs...)
}

func validateColor(setting string, tuple [4]float64) []error {
	var errs []error
	for i, v := range tuple {
		if v < 0 || v > 1 {
			errs = append(errs, &ValidationError{
				Setting: fmt.Sprintf("%s[%d]", setting, i),
				Message: "components must be in [0,1]",
				Value:   v,
			})
		}
	}
	return errs
}

// CanvasMode resolves the configured starting mode. Call only after
// Validate.
func (c *Config) CanvasMode() editor.CanvasMode {
	m, _ := editor.ModeFromName(c.Canvas.Mode)
	return m
}

// StrokeStyle resolves the configured stroke style.
func (c *Config) StrokeStyle() editor.StrokeStyle {
	return editor.StrokeStyle{
		Color: scene.Color{
			R: c.Stroke.Color[0],
			G: c.Stroke.Color[1],
			B: c.Stroke.Color[2],
			A: c.Stroke.Color[3],
		},
		Width: c.Stroke.Width,
	}
}

// EditorConfig builds the editor construction settings.
func (c *Config) EditorConfig() editor.Config {
	return editor.Config{
		HistoryDepth: c.History.Depth,
		Stroke:       c.StrokeStyle(),
	}
}
