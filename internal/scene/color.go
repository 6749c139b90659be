package scene

import (
	"encoding/json"
	"fmt"
)

// Color is an RGBA color with components normalized to [0, 1]. It is
// serialized as a four-element component tuple.
type Color struct {
	R, G, B, A float64
}

// NewColor creates a Color from its components. Components outside [0, 1]
// are clamped.
func NewColor(r, g, b, a float64) Color {
	return Color{R: clamp01(r), G: clamp01(g), B: clamp01(b), A: clamp01(a)}
}

// Predefined stroke colors.
var (
	Black = Color{R: 0, G: 0, B: 0, A: 1}
	White = Color{R: 1, G: 1, B: 1, A: 1}
	Red   = Color{R: 0.86, G: 0.2, B: 0.18, A: 1}
	Green = Color{R: 0.2, G: 0.66, B: 0.33, A: 1}
	Blue  = Color{R: 0.16, G: 0.38, B: 0.8, A: 1}
)

// MarshalJSON encodes the color as [r, g, b, a].
func (c Color) MarshalJSON() ([]byte, error) {
	return json.Marshal([4]float64{c.R, c.G, c.B, c.A})
}

// UnmarshalJSON accepts a component tuple. Three components are accepted
// with alpha defaulting to 1.
func (c *Color) UnmarshalJSON(data []byte) error {
	var parts []float64
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("color: %w", err)
	}
	if len(parts) < 3 || len(parts) > 4 {
		return fmt.Errorf("color: expected 3 or 4 components, got %d", len(parts))
	}
	c.R = clamp01(parts[0])
	c.G = clamp01(parts[1])
	c.B = clamp01(parts[2])
	c.A = 1
	if len(parts) == 4 {
		c.A = clamp01(parts[3])
	}
	return nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
