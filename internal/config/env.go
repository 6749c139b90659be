package config

import (
	"errors"
	"os"
	"strconv"
)

// envBindings maps GLYPHBOARD_* variables onto settings. Bindings are
// explicit; variables outside this table are ignored.
var envBindings = []struct {
	name    string
	setting string
	apply   func(*Config, string) error
}{
	{"GLYPHBOARD_MODE", "canvas.mode", func(c *Config, v string) error {
		c.Canvas.Mode = v
		return nil
	}},
	{"GLYPHBOARD_PENCIL_ONLY", "canvas.pencil_only", func(c *Config, v string) error {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return err
		}
		c.Canvas.PencilOnly = b
		return nil
	}},
	{"GLYPHBOARD_HISTORY_DEPTH", "history.depth", func(c *Config, v string) error {
		n, err := strconv.Atoi(v)
		if err != nil {
			return err
		}
		c.History.Depth = n
		return nil
	}},
	{"GLYPHBOARD_STROKE_WIDTH", "stroke.width", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Stroke.Width = f
		return nil
	}},
	{"GLYPHBOARD_AUTOSAVE_PATH", "autosave.path", func(c *Config, v string) error {
		c.Autosave.Path = v
		return nil
	}},
	{"GLYPHBOARD_MIRROR_LISTEN", "mirror.listen", func(c *Config, v string) error {
		c.Mirror.Listen = v
		return nil
	}},
	{"GLYPHBOARD_SCRIPT_DIR", "script.dir", func(c *Config, v string) error {
		c.Script.Dir = v
		return nil
	}},
	{"GLYPHBOARD_EXPORT_SCALE", "export.scale", func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return err
		}
		c.Export.Scale = f
		return nil
	}},
}

// ApplyEnvironment overlays GLYPHBOARD_* environment variables onto c.
// Environment values win over file values; callers validate afterward.
// Unset variables leave their settings alone; unparseable values are
// reported as validation errors.
func (c *Config) ApplyEnvironment() error {
	var errs []error
	for _, b := range envBindings {
		v, ok := os.LookupEnv(b.name)
		if !ok {
			continue
		}
		if err := b.apply(c, v); err != nil {
			errs = append(errs, &ValidationError{
				Setting: b.setting,
				Message: "unparseable " + b.name,
				Value:   v,
			})
		}
	}
	return errors.Join(errs...)
}
