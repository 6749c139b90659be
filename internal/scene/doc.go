// Package scene defines the entity model for the drawing surface and the
// canvas-wide collections that hold it.
//
// # Entities
//
// Three entity types make up a scene:
//
//   - Arrow: a straight connector between two canvas points, optionally
//     bidirectional, hit-tested by distance to its segment.
//   - Symbol: a user-drawn glyph made of one or more strokes, stored
//     relative to the glyph's center so it can be stamped anywhere.
//   - Path: a single finished stroke with color and width. Paths are
//     treated as immutable once recorded.
//
// # Shared identity
//
// A Symbol stamped from a key-bound template reuses the template's ID, so
// several scene entries may share one ID at a time. Operations that change
// key assignment fan out over every entry with the matching ID through the
// Scene; entries are never aliased to make that happen implicitly.
//
// # Key bindings
//
// The Scene maps single lowercase alphanumeric runes to template Symbols.
// The runes 'z' and 'y' are reserved for undo/redo and can never be bound.
//
// # Snapshots
//
// Clone produces a deep copy of the whole scene (entities and bindings)
// with no structure shared with the original. Clones are the unit of
// undo/redo history.
package scene
