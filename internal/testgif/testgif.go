// Package testgif builds small GIF fixtures for tests.
package testgif

import (
	"bytes"
	"image"
	"image/color"
	"image/gif"
	"os"
)

// Spec describes a fixture: every frame is a solid colour covering the whole
// logical screen, unless Rects supplies a sub-rectangle for that frame.
type Spec struct {
	Width, Height int
	Colors        []color.Color
	Delays        []int // centiseconds; missing entries mean 0
	Rects         []image.Rectangle
	Disposal      []byte
}

// Bytes encodes spec as a GIF.
func Bytes(spec Spec) ([]byte, error) {
	g := &gif.GIF{
		Config: image.Config{Width: spec.Width, Height: spec.Height},
	}
	for i, c := range spec.Colors {
		r := image.Rect(0, 0, spec.Width, spec.Height)
		if i < len(spec.Rects) && !spec.Rects[i].Empty() {
			r = spec.Rects[i]
		}
		pal := color.Palette{color.Transparent, c}
		frame := image.NewPaletted(r, pal)
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				frame.SetColorIndex(x, y, 1)
			}
		}
		delay := 0
		if i < len(spec.Delays) {
			delay = spec.Delays[i]
		}
		var disposal byte
		if i < len(spec.Disposal) {
			disposal = spec.Disposal[i]
		}
		g.Image = append(g.Image, frame)
		g.Delay = append(g.Delay, delay)
		g.Disposal = append(g.Disposal, disposal)
	}
	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteFile encodes spec and writes it to path.
func WriteFile(path string, spec Spec) error {
	data, err := Bytes(spec)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}
