package library

import "math"

// Defaults applied to a new record and to every field missing from a
// loaded document.
const (
	DefaultScale   = 100
	DefaultPosX    = 100
	DefaultPosY    = 100
	DefaultOpacity = 1.0
	DefaultSpeed   = 100
	DefaultGhost   = false
)

// Value limits enforced on every write.
const (
	MinScale   = 1
	MinSpeed   = 1
	MinOpacity = 0.1
	MaxOpacity = 1.0
)

// Entry is the saved display state of one managed animated image. Path is
// the canonical path and the identity key inside a Store.
type Entry struct {
	Path    string  `json:"path"`
	Scale   int     `json:"scale"`
	PosX    int     `json:"pos_x"`
	PosY    int     `json:"pos_y"`
	Opacity float64 `json:"opacity"`
	Speed   int     `json:"speed"`
	Ghost   bool    `json:"ghost"`
}

// NewEntry returns a record for path with every field at its default.
func NewEntry(path string) Entry {
	return Entry{
		Path:    path,
		Scale:   DefaultScale,
		PosX:    DefaultPosX,
		PosY:    DefaultPosY,
		Opacity: DefaultOpacity,
		Speed:   DefaultSpeed,
		Ghost:   DefaultGhost,
	}
}

// Normalized returns a copy with numeric fields forced into range.
func (e Entry) Normalized() Entry {
	e.Scale = FloorScale(e.Scale)
	e.Speed = FloorSpeed(e.Speed)
	e.Opacity = ClampOpacity(e.Opacity)
	return e
}

// ClampOpacity forces v into [MinOpacity, MaxOpacity]. NaN maps to the default.
func ClampOpacity(v float64) float64 {
	if math.IsNaN(v) {
		return DefaultOpacity
	}
	return math.Max(MinOpacity, math.Min(v, MaxOpacity))
}

// FloorScale returns p, or MinScale if p is smaller.
func FloorScale(p int) int {
	return max(p, MinScale)
}

// FloorSpeed returns p, or MinSpeed if p is smaller.
func FloorSpeed(p int) int {
	return max(p, MinSpeed)
}
