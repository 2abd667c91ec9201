package config

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"
)

func TestDefaultLibraryPath(t *testing.T) {
	prev := userConfigDir
	defer func() { userConfigDir = prev }()

	userConfigDir = func() (string, error) { return filepath.Join("cfg", "home"), nil }
	if got, want := DefaultLibraryPath(), filepath.Join("cfg", "home", "deskgif", "library.json"); got != want {
		t.Fatalf("DefaultLibraryPath() = %q, want %q", got, want)
	}

	userConfigDir = func() (string, error) { return "", errors.New("no home") }
	if got := DefaultLibraryPath(); got != "library.json" {
		t.Fatalf("DefaultLibraryPath() without config dir = %q", got)
	}
}

func TestNormalizeClampsThumbSize(t *testing.T) {
	tests := []struct {
		in, want int
		changed  bool
	}{
		{DefaultThumbSize, DefaultThumbSize, false},
		{4, MinThumbSize, true},
		{4096, MaxThumbSize, true},
	}
	for _, tt := range tests {
		c := Default()
		c.ThumbSize = tt.in
		adj := c.Normalize()
		if c.ThumbSize != tt.want {
			t.Errorf("ThumbSize %d normalized to %d, want %d", tt.in, c.ThumbSize, tt.want)
		}
		if (len(adj) > 0) != tt.changed {
			t.Errorf("ThumbSize %d adjustments = %+v, changed want %v", tt.in, adj, tt.changed)
		}
	}
}

func TestNormalizePresets(t *testing.T) {
	c := Default()
	c.ScalePresets = []int{200, 0, 50, 50, -10, 100}
	c.Normalize()
	if want := []int{50, 100, 200}; !slices.Equal(c.ScalePresets, want) {
		t.Fatalf("ScalePresets = %v, want %v", c.ScalePresets, want)
	}

	c.ScalePresets = []int{0}
	c.Normalize()
	if !slices.Equal(c.ScalePresets, DefaultScalePresets) {
		t.Fatalf("empty presets should fall back to defaults, got %v", c.ScalePresets)
	}
}

func TestNormalizeEmptyLibraryPath(t *testing.T) {
	c := Default()
	c.LibraryPath = ""
	adj := c.Normalize()
	if c.LibraryPath == "" || len(adj) != 1 || adj[0].Field != "library_path" {
		t.Fatalf("empty library path not defaulted: %q %+v", c.LibraryPath, adj)
	}
}
