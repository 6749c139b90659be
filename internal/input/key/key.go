// Package key defines normalized keyboard events for the canvas core.
//
// The input collaborator reduces raw keyboard input to a small surface:
// single alphanumeric characters, the named keys Escape and Backspace, and
// the three recognized modifier keys (primary/"command",
// secondary/"option", shift). Everything else is dropped before it
// reaches this package.
package key

import (
	"fmt"
	"strings"
)

// Key identifies a keyboard key. Character keys use KeyRune with the
// character in Event.Rune.
type Key uint16

const (
	// KeyNone represents no key.
	KeyNone Key = iota

	// Named keys the interaction core reacts to.
	KeyEscape
	KeyBackspace

	// Modifier keys, delivered as their own press/release events so the
	// core can track held state.
	KeyPrimary
	KeySecondary
	KeyShift

	// KeyRune is used for character keys; the character is stored in
	// Event.Rune.
	KeyRune
)

// String returns a human-readable name for the key.
func (k Key) String() string {
	switch k {
	case KeyNone:
		return "None"
	case KeyEscape:
		return "Escape"
	case KeyBackspace:
		return "Backspace"
	case KeyPrimary:
		return "Primary"
	case KeySecondary:
		return "Secondary"
	case KeyShift:
		return "Shift"
	case KeyRune:
		return "Rune"
	default:
		return fmt.Sprintf("Key(%d)", k)
	}
}

// IsModifier reports whether this is one of the modifier keys.
func (k Key) IsModifier() bool {
	return k == KeyPrimary || k == KeySecondary || k == KeyShift
}

// Modifier returns the modifier bit corresponding to a modifier key, or
// ModNone for other keys.
func (k Key) Modifier() Modifier {
	switch k {
	case KeyPrimary:
		return ModPrimary
	case KeySecondary:
		return ModSecondary
	case KeyShift:
		return ModShift
	default:
		return ModNone
	}
}

// keyNameMap maps key names (lowercase) to Key values.
var keyNameMap = map[string]Key{
	"none":      KeyNone,
	"escape":    KeyEscape,
	"esc":       KeyEscape,
	"backspace": KeyBackspace,
	"bs":        KeyBackspace,
	"primary":   KeyPrimary,
	"command":   KeyPrimary,
	"cmd":       KeyPrimary,
	"secondary": KeySecondary,
	"option":    KeySecondary,
	"opt":       KeySecondary,
	"alt":       KeySecondary,
	"shift":     KeyShift,
}

// FromName returns the Key for a given name (case-insensitive). Returns
// KeyNone if the name is not recognized.
func FromName(name string) Key {
	name = strings.ToLower(strings.TrimSpace(name))
	if k, ok := keyNameMap[name]; ok {
		return k
	}
	return KeyNone
}
