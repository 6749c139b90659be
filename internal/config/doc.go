// Package config loads and watches glyphboard configuration.
//
// Configuration lives in a single TOML file. Loading a path that does
// not exist is not an error: Load returns nil and callers fall back to
// Default. GLYPHBOARD_* environment variables override file values.
// A Watcher built on fsnotify reports rewrites of the file so the
// application can apply changes without restarting.
//
// All values are validated after load. Validation failures carry the
// offending section and value in a ValidationError.
package config
