package mirror

import (
	"encoding/json"
	"sort"

	"glyphboard/internal/editor"
	"glyphboard/internal/scene"
)

// Payload is the wire form of one board frame. Scene entities reuse
// their document encoding, so a mirror client reads the same shapes a
// saved board file contains.
type Payload struct {
	Arrows    []*scene.Arrow  `json:"arrows"`
	Symbols   []*scene.Symbol `json:"symbols"`
	Stroke    *scene.Path     `json:"stroke,omitempty"`
	Pending   []scene.Path    `json:"pending,omitempty"`
	Mode      string          `json:"mode"`
	Prompt    bool            `json:"prompt,omitempty"`
	CanUndo   bool            `json:"canUndo"`
	CanRedo   bool            `json:"canRedo"`
	Scale     float64         `json:"scale"`
	BoundKeys []string        `json:"boundKeys,omitempty"`
}

// BuildPayload converts a frame into its wire form. The frame's
// entities are already clones, so the payload may be marshaled from
// any goroutine.
func BuildPayload(f editor.Frame) Payload {
	p := Payload{
		Arrows:  f.Arrows,
		Symbols: f.Symbols,
		Pending: f.PendingPaths,
		Mode:    f.Mode.String(),
		Prompt:  f.PromptOpen,
		CanUndo: f.CanUndo,
		CanRedo: f.CanRedo,
		Scale:   f.Scale,
	}
	if len(f.Stroke.Points) > 0 {
		stroke := f.Stroke
		p.Stroke = &stroke
	}
	for _, r := range f.BoundKeys {
		p.BoundKeys = append(p.BoundKeys, string(r))
	}
	sort.Strings(p.BoundKeys)
	return p
}

// Encode marshals the payload for broadcast.
func (p Payload) Encode() ([]byte, error) {
	return json.Marshal(p)
}
