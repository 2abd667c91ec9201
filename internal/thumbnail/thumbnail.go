// Package thumbnail renders static previews of the first frame of an
// animated image.
package thumbnail

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"
	"sync"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/logger"
)

// Empty returns the placeholder used when a file cannot be decoded.
func Empty() image.Image {
	return image.NewRGBA(image.Rectangle{})
}

// IsEmpty reports whether img is nil or has no pixels.
func IsEmpty(img image.Image) bool {
	return img == nil || img.Bounds().Empty()
}

// Extract decodes the first frame of path and fits it inside a box x box
// square. A box of 0 keeps the original size. Failures yield Empty().
func Extract(path string, box int) image.Image {
	img, err := Load(path, box)
	if err != nil {
		logger.Debug("Thumbnail unavailable", "path", path, "error", err)
		return Empty()
	}
	return img
}

// Load is Extract with the error reported instead of swallowed.
func Load(path string, box int) (image.Image, error) {
	if box < 0 {
		return nil, apperrors.InvalidInput(fmt.Sprintf("thumbnail size must not be negative, got %d", box))
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.InvalidImage(err)
	}
	defer f.Close()
	img, err := firstFrame(f)
	if err != nil {
		return nil, apperrors.InvalidImage(fmt.Errorf("%s: %w", path, err))
	}
	if box == 0 {
		return img, nil
	}
	return Scale(img, box), nil
}

func firstFrame(r io.Reader) (*image.RGBA, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, err
	}
	b := src.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("image has no pixels")
	}
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)
	return dst, nil
}

// Fit returns the largest size with the aspect ratio of src that fits in a
// box x box square. Each edge is at least 1.
func Fit(src image.Point, box int) image.Point {
	if src.X <= 0 || src.Y <= 0 || box <= 0 {
		return image.Point{}
	}
	if src.X >= src.Y {
		return image.Pt(box, max(src.Y*box/src.X, 1))
	}
	return image.Pt(max(src.X*box/src.Y, 1), box)
}

// Scale resamples img to Fit(img size, box) using Catmull-Rom.
func Scale(img image.Image, box int) image.Image {
	if IsEmpty(img) {
		return Empty()
	}
	size := Fit(img.Bounds().Size(), box)
	dst := image.NewRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

// EncodePNG writes img as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	if IsEmpty(img) {
		return apperrors.InvalidInput("thumbnail is empty")
	}
	return png.Encode(w, img)
}

type cacheKey struct {
	path string
	box  int
}

// Cache memoises Extract results per path and box size. It is safe for
// concurrent use.
type Cache struct {
	entries sync.Map
	extract func(string, int) image.Image
}

// NewCache returns an empty cache backed by Extract.
func NewCache() *Cache {
	return &Cache{extract: Extract}
}

// Get returns the cached thumbnail, extracting it on first use.
func (c *Cache) Get(path string, box int) image.Image {
	key := cacheKey{path: path, box: box}
	if v, ok := c.entries.Load(key); ok {
		return v.(image.Image)
	}
	img := c.extract(path, box)
	v, _ := c.entries.LoadOrStore(key, img)
	return v.(image.Image)
}

// Forget drops every cached size of path.
func (c *Cache) Forget(path string) {
	c.entries.Range(func(k, _ any) bool {
		if k.(cacheKey).path == path {
			c.entries.Delete(k)
		}
		return true
	})
}
