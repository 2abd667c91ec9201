// Package overlay holds the display state of one floating overlay window:
// geometry, scale, opacity, speed, drag tracking and the close hand-off.
// It knows nothing about the GUI toolkit; cmd/deskgif-gui renders it.
package overlay

import (
	"image"
	"slices"

	"github.com/oukeidos/deskgif/internal/library"
)

// Observer receives the final settings of an overlay when it closes.
type Observer interface {
	OnOverlayClosed(path string, x, y, scale int, opacity float64, speed int)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(path string, x, y, scale int, opacity float64, speed int)

func (f ObserverFunc) OnOverlayClosed(path string, x, y, scale int, opacity float64, speed int) {
	f(path, x, y, scale, opacity, speed)
}

// State is not safe for concurrent use; the GUI only touches it from the
// UI goroutine.
type State struct {
	Path     string
	X, Y     int
	Scale    int
	Opacity  float64
	Speed    int
	Ghost    bool
	Original image.Point
	Presets  []int
	// Pinned overlays cannot be dragged: the window cannot be moved, so the
	// saved position stays where it was.
	Pinned bool

	observer Observer
	dragging bool
	last     image.Point
	closed   bool
}

// New seeds a State from a library record. original is the pixel size of
// the decoded animation.
func New(e library.Entry, original image.Point, presets []int, observer Observer) *State {
	e = e.Normalized()
	return &State{
		Path:     e.Path,
		X:        e.PosX,
		Y:        e.PosY,
		Scale:    e.Scale,
		Opacity:  e.Opacity,
		Speed:    e.Speed,
		Ghost:    e.Ghost,
		Original: original,
		Presets:  slices.Clone(presets),
		observer: observer,
	}
}

// ScaledSize is Original*Scale/100, floored, with each edge at least 1px.
func (s *State) ScaledSize() image.Point {
	return ScaleSize(s.Original, s.Scale)
}

// ScaleSize applies a percentage to size, flooring each edge at 1.
func ScaleSize(size image.Point, percent int) image.Point {
	percent = library.FloorScale(percent)
	return image.Pt(max(size.X*percent/100, 1), max(size.Y*percent/100, 1))
}

// ApplyScale sets the scale percentage and returns the new rendered size.
func (s *State) ApplyScale(percent int) image.Point {
	s.Scale = library.FloorScale(percent)
	return s.ScaledSize()
}

// IsCurrentPreset reports whether percent is the active scale.
func (s *State) IsCurrentPreset(percent int) bool {
	return s.Scale == percent
}

// SetOpacity clamps v into the allowed range and returns the result.
func (s *State) SetOpacity(v float64) float64 {
	s.Opacity = library.ClampOpacity(v)
	return s.Opacity
}

// SetSpeed floors speed at 1 and returns the result.
func (s *State) SetSpeed(speed int) int {
	s.Speed = library.FloorSpeed(speed)
	return s.Speed
}

// Position returns the top-left corner on screen.
func (s *State) Position() image.Point {
	return image.Pt(s.X, s.Y)
}

// PressPrimary starts a drag at screen point p. Ghost and pinned overlays
// ignore it.
func (s *State) PressPrimary(p image.Point) {
	if s.Ghost || s.Pinned || s.closed {
		return
	}
	s.dragging = true
	s.last = p
}

// MoveTo moves the overlay by the pointer delta since the last point and
// reports whether the position changed.
func (s *State) MoveTo(p image.Point) bool {
	if !s.dragging || s.Ghost || s.Pinned {
		return false
	}
	d := p.Sub(s.last)
	s.last = p
	if d == (image.Point{}) {
		return false
	}
	s.X += d.X
	s.Y += d.Y
	return true
}

// Release ends a drag.
func (s *State) Release() {
	s.dragging = false
}

// Dragging reports whether a drag is in progress.
func (s *State) Dragging() bool {
	return s.dragging
}

// Closed reports whether Close has run.
func (s *State) Closed() bool {
	return s.closed
}

// Entry returns the state as a library record.
func (s *State) Entry() library.Entry {
	return library.Entry{
		Path:    s.Path,
		Scale:   s.Scale,
		PosX:    s.X,
		PosY:    s.Y,
		Opacity: s.Opacity,
		Speed:   s.Speed,
		Ghost:   s.Ghost,
	}
}

// Close notifies the observer with the final settings. Only the first call
// has any effect.
func (s *State) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.dragging = false
	if s.observer != nil {
		s.observer.OnOverlayClosed(s.Path, s.X, s.Y, s.Scale, s.Opacity, s.Speed)
	}
}
