// Package anim decodes animated images into fully composited frames and
// provides the playback clock that drives an overlay.
package anim

import (
	"bufio"
	"bytes"
	"fmt"
	"image"
	"image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"time"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/oukeidos/deskgif/internal/apperrors"
)

// DefaultFrameDelay replaces GIF delays of 0 or 1 centisecond, which most
// viewers treat as "unspecified".
const DefaultFrameDelay = 100 * time.Millisecond

var gifMagic = []byte("GIF8")

// Frame is one complete picture of the animation and how long it stays up
// at normal speed.
type Frame struct {
	Image *image.RGBA
	Delay time.Duration
}

// Animation is a decoded image. Still images have a single frame.
type Animation struct {
	Frames []Frame
	Size   image.Point
}

// Load decodes the file at path. Any failure, including a missing file, is
// an apperrors.KindInvalidImage error.
func Load(path string) (*Animation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.InvalidImage(err)
	}
	defer f.Close()
	a, err := Decode(f)
	if err != nil {
		return nil, apperrors.InvalidImage(fmt.Errorf("%s: %w", path, err))
	}
	return a, nil
}

// Decode reads a GIF (every frame) or a still PNG, JPEG or WebP image.
func Decode(r io.Reader) (*Animation, error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(gifMagic))
	if bytes.Equal(head, gifMagic) {
		g, err := gif.DecodeAll(br)
		if err != nil {
			return nil, err
		}
		return fromGIF(g)
	}
	img, _, err := image.Decode(br)
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	frame := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(frame, frame.Bounds(), img, b.Min, draw.Src)
	return &Animation{
		Frames: []Frame{{Image: frame, Delay: DefaultFrameDelay}},
		Size:   b.Size(),
	}, nil
}

func fromGIF(g *gif.GIF) (*Animation, error) {
	if len(g.Image) == 0 {
		return nil, fmt.Errorf("gif has no frames")
	}
	bounds := image.Rect(0, 0, g.Config.Width, g.Config.Height)
	if bounds.Empty() {
		for _, p := range g.Image {
			bounds = bounds.Union(p.Bounds())
		}
	}
	if bounds.Empty() {
		return nil, fmt.Errorf("gif has no pixels")
	}

	canvas := image.NewRGBA(bounds)
	frames := make([]Frame, 0, len(g.Image))
	for i, src := range g.Image {
		disposal := byte(0)
		if i < len(g.Disposal) {
			disposal = g.Disposal[i]
		}
		var previous *image.RGBA
		if disposal == gif.DisposalPrevious {
			previous = cloneRGBA(canvas)
		}

		draw.Draw(canvas, src.Bounds(), src, src.Bounds().Min, draw.Over)
		frames = append(frames, Frame{Image: cloneRGBA(canvas), Delay: gifDelay(g, i)})

		switch disposal {
		case gif.DisposalBackground:
			draw.Draw(canvas, src.Bounds(), image.Transparent, image.Point{}, draw.Src)
		case gif.DisposalPrevious:
			canvas = previous
		}
	}
	return &Animation{Frames: frames, Size: bounds.Size()}, nil
}

func gifDelay(g *gif.GIF, i int) time.Duration {
	if i >= len(g.Delay) || g.Delay[i] <= 1 {
		return DefaultFrameDelay
	}
	return time.Duration(g.Delay[i]) * 10 * time.Millisecond
}

func cloneRGBA(src *image.RGBA) *image.RGBA {
	dst := image.NewRGBA(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
