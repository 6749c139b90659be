package key

import (
	"fmt"
	"time"
	"unicode"
)

// Event represents a single key press or release.
type Event struct {
	// Key identifies the key.
	Key Key

	// Rune is the character for KeyRune events.
	Rune rune

	// Modifiers contains the modifier keys held when the event fired.
	Modifiers Modifier

	// Timestamp is when the event occurred.
	Timestamp time.Time
}

// NewEvent creates a key event with the current timestamp.
func NewEvent(key Key, r rune, mods Modifier) Event {
	return Event{
		Key:       key,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewRuneEvent creates a key event for a character.
func NewRuneEvent(r rune, mods Modifier) Event {
	return Event{
		Key:       KeyRune,
		Rune:      r,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// NewSpecialEvent creates a key event for a named or modifier key.
func NewSpecialEvent(key Key, mods Modifier) Event {
	return Event{
		Key:       key,
		Modifiers: mods,
		Timestamp: time.Now(),
	}
}

// IsRune reports whether this is a character key event.
func (e Event) IsRune() bool {
	return e.Key == KeyRune && e.Rune != 0
}

// Lower returns the lowercased character of a rune event, or 0 for other
// events. Shortcut handling is case-insensitive and goes through this.
func (e Event) Lower() rune {
	if !e.IsRune() {
		return 0
	}
	return unicode.ToLower(e.Rune)
}

// IsEscape reports whether this is the Escape key.
func (e Event) IsEscape() bool {
	return e.Key == KeyEscape
}

// IsBackspace reports whether this is the Backspace key.
func (e Event) IsBackspace() bool {
	return e.Key == KeyBackspace
}

// IsModifierKey reports whether this event is a modifier key itself
// (rather than a key pressed with modifiers held).
func (e Event) IsModifierKey() bool {
	return e.Key.IsModifier()
}

// Equals reports whether two events represent the same key press.
// Timestamps are not compared.
func (e Event) Equals(other Event) bool {
	return e.Key == other.Key && e.Rune == other.Rune && e.Modifiers == other.Modifiers
}

// String returns a canonical representation like "a", "Primary+a" or
// "Escape".
func (e Event) String() string {
	name := e.Key.String()
	if e.Key == KeyRune {
		name = string(e.Rune)
		if e.Rune == ' ' {
			name = "Space"
		}
	}
	if mods := e.Modifiers.String(); mods != "" {
		return mods + "+" + name
	}
	return name
}

// GoString implements fmt.GoStringer for debugging.
func (e Event) GoString() string {
	return fmt.Sprintf("Event{Key: %s, Rune: %q, Modifiers: %s}",
		e.Key.String(), e.Rune, e.Modifiers.String())
}
