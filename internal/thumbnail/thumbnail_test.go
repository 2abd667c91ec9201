package thumbnail

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/testgif"
)

func writeGIF(t *testing.T, w, h int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "anim.gif")
	spec := testgif.Spec{
		Width: w, Height: h,
		Colors: []color.Color{color.RGBA{R: 255, A: 255}, color.RGBA{B: 255, A: 255}},
		Delays: []int{10, 10},
	}
	if err := testgif.WriteFile(path, spec); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestFit(t *testing.T) {
	tests := []struct {
		name string
		src  image.Point
		box  int
		want image.Point
	}{
		{"Landscape", image.Pt(200, 100), 96, image.Pt(96, 48)},
		{"Portrait", image.Pt(100, 400), 96, image.Pt(24, 96)},
		{"Square", image.Pt(10, 10), 96, image.Pt(96, 96)},
		{"Sliver", image.Pt(1000, 1), 96, image.Pt(96, 1)},
		{"Empty", image.Pt(0, 10), 96, image.Point{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fit(tt.src, tt.box); got != tt.want {
				t.Fatalf("Fit(%v, %d) = %v, want %v", tt.src, tt.box, got, tt.want)
			}
		})
	}
}

func TestExtractFirstFrameScaled(t *testing.T) {
	path := writeGIF(t, 40, 20)
	img := Extract(path, 16)
	if got := img.Bounds().Size(); got != image.Pt(16, 8) {
		t.Fatalf("size = %v, want 16x8", got)
	}
	r, g, b, _ := img.At(8, 4).RGBA()
	if r < 0xf000 || g > 0x1000 || b > 0x1000 {
		t.Fatalf("center pixel = %v, want first (red) frame", img.At(8, 4))
	}
}

func TestExtractOriginalSize(t *testing.T) {
	path := writeGIF(t, 5, 3)
	img := Extract(path, 0)
	if got := img.Bounds().Size(); got != image.Pt(5, 3) {
		t.Fatalf("size = %v, want 5x3", got)
	}
}

func TestExtractUndecodableIsEmpty(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.gif")
	if err := os.WriteFile(bad, []byte("nope"), 0600); err != nil {
		t.Fatalf("write: %v", err)
	}
	for _, path := range []string{bad, filepath.Join(dir, "missing.gif")} {
		if img := Extract(path, 96); !IsEmpty(img) {
			t.Errorf("Extract(%s) = %v, want empty", filepath.Base(path), img.Bounds())
		}
		if _, err := Load(path, 96); !apperrors.Is(err, apperrors.KindInvalidImage) {
			t.Errorf("Load(%s) error = %v, want invalid_image", filepath.Base(path), err)
		}
	}
}

func TestLoadNegativeBox(t *testing.T) {
	path := writeGIF(t, 4, 4)
	if _, err := Load(path, -1); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("Load(-1) error = %v, want invalid_input", err)
	}
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, Empty()); !apperrors.Is(err, apperrors.KindInvalidInput) {
		t.Fatalf("EncodePNG(empty) error = %v", err)
	}
	img := Extract(writeGIF(t, 4, 4), 8)
	if err := EncodePNG(&buf, img); err != nil {
		t.Fatalf("EncodePNG: %v", err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if decoded.Bounds().Size() != image.Pt(8, 8) {
		t.Fatalf("decoded size = %v", decoded.Bounds().Size())
	}
}

func TestCacheExtractsOncePerKey(t *testing.T) {
	calls := 0
	c := &Cache{extract: func(string, int) image.Image {
		calls++
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}}
	c.Get("a.gif", 96)
	c.Get("a.gif", 96)
	c.Get("a.gif", 48)
	if calls != 2 {
		t.Fatalf("extract calls = %d, want 2", calls)
	}
	c.Forget("a.gif")
	c.Get("a.gif", 96)
	if calls != 3 {
		t.Fatalf("extract calls after Forget = %d, want 3", calls)
	}
}
