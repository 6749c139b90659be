package pointer

import (
	"time"

	"glyphboard/internal/geometry"
)

// Defaults for double-tap detection.
const (
	DefaultDoubleTapTime     = 400 * time.Millisecond
	DefaultDoubleTapDistance = 24.0
)

// TapTracker detects double-taps from a stream of single taps using time
// and distance thresholds. The count wraps after two, so a fast triple
// tap reads as a double followed by a fresh single.
type TapTracker struct {
	maxTime     time.Duration
	maxDistance float64

	lastPos   geometry.Point
	lastTime  time.Time
	lastCount int
}

// NewTapTracker creates a tracker with the given thresholds.
// Non-positive values fall back to the defaults.
func NewTapTracker(maxTime time.Duration, maxDistance float64) *TapTracker {
	if maxTime <= 0 {
		maxTime = DefaultDoubleTapTime
	}
	if maxDistance <= 0 {
		maxDistance = DefaultDoubleTapDistance
	}
	return &TapTracker{maxTime: maxTime, maxDistance: maxDistance}
}

// Record registers a tap and returns the tap count (1 or 2). A zero
// timestamp falls back to time.Now().
func (t *TapTracker) Record(pos geometry.Point, timestamp time.Time) int {
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	if t.isPartOfSequence(pos, timestamp) {
		t.lastCount++
		if t.lastCount > 2 {
			t.lastCount = 1
		}
	} else {
		t.lastCount = 1
	}

	t.lastPos = pos
	t.lastTime = timestamp
	return t.lastCount
}

// isPartOfSequence reports whether a tap continues the current sequence.
func (t *TapTracker) isPartOfSequence(pos geometry.Point, timestamp time.Time) bool {
	if t.lastCount == 0 || t.lastTime.IsZero() {
		return false
	}
	// Clock skew reads as a new sequence.
	elapsed := timestamp.Sub(t.lastTime)
	if elapsed < 0 || elapsed > t.maxTime {
		return false
	}
	return pos.Distance(t.lastPos) <= t.maxDistance
}

// Reset clears the tracking state.
func (t *TapTracker) Reset() {
	t.lastCount = 0
	t.lastTime = time.Time{}
	t.lastPos = geometry.Point{}
}
