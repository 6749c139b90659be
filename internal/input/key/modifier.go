package key

import "strings"

// Modifier represents the recognized modifier keys as a bitmask.
type Modifier uint8

const (
	// ModNone indicates no modifiers.
	ModNone Modifier = 0

	// ModShift indicates the Shift key.
	ModShift Modifier = 1 << iota

	// ModPrimary indicates the primary modifier (Command on macOS,
	// Control elsewhere).
	ModPrimary

	// ModSecondary indicates the secondary modifier (Option/Alt).
	ModSecondary
)

// Has reports whether m contains the specified modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// HasShift reports whether Shift is held.
func (m Modifier) HasShift() bool {
	return m.Has(ModShift)
}

// HasPrimary reports whether the primary modifier is held.
func (m Modifier) HasPrimary() bool {
	return m.Has(ModPrimary)
}

// HasSecondary reports whether the secondary modifier is held.
func (m Modifier) HasSecondary() bool {
	return m.Has(ModSecondary)
}

// With returns a new Modifier with the specified modifier added.
func (m Modifier) With(mod Modifier) Modifier {
	return m | mod
}

// Without returns a new Modifier with the specified modifier removed.
func (m Modifier) Without(mod Modifier) Modifier {
	return m &^ mod
}

// IsEmpty reports whether no modifiers are set.
func (m Modifier) IsEmpty() bool {
	return m == ModNone
}

// String returns a representation like "Primary+Shift".
func (m Modifier) String() string {
	if m == ModNone {
		return ""
	}

	var parts []string
	if m.HasPrimary() {
		parts = append(parts, "Primary")
	}
	if m.HasSecondary() {
		parts = append(parts, "Secondary")
	}
	if m.HasShift() {
		parts = append(parts, "Shift")
	}
	return strings.Join(parts, "+")
}

// modifierNameMap maps modifier names (lowercase) to Modifier values.
var modifierNameMap = map[string]Modifier{
	"shift":     ModShift,
	"primary":   ModPrimary,
	"command":   ModPrimary,
	"cmd":       ModPrimary,
	"secondary": ModSecondary,
	"option":    ModSecondary,
	"opt":       ModSecondary,
	"alt":       ModSecondary,
}

// ModifierFromName returns the Modifier for a given name
// (case-insensitive). Returns ModNone if the name is not recognized.
func ModifierFromName(name string) Modifier {
	if m, ok := modifierNameMap[strings.ToLower(name)]; ok {
		return m
	}
	return ModNone
}

// ParseModifiers parses a modifier list like "primary+shift".
func ParseModifiers(s string) Modifier {
	var result Modifier
	for _, part := range strings.Split(strings.ToLower(s), "+") {
		if mod := ModifierFromName(strings.TrimSpace(part)); mod != ModNone {
			result = result.With(mod)
		}
	}
	return result
}
