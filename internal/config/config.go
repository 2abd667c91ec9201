package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"slices"
)

const (
	appDirName      = "deskgif"
	libraryFileName = "library.json"

	DefaultThumbSize = 96
	MinThumbSize     = 16
	MaxThumbSize     = 512
)

// DefaultScalePresets are offered in the overlay context menu.
var DefaultScalePresets = []int{50, 75, 100, 125, 150, 200}

// Theme holds the control panel colours.
type Theme struct {
	Background color.NRGBA
	Foreground color.NRGBA
	Primary    color.NRGBA
	Disabled   color.NRGBA
}

// DefaultTheme is dark with a green primary.
func DefaultTheme() Theme {
	return Theme{
		Background: color.NRGBA{R: 0x1e, G: 0x1e, B: 0x1e, A: 0xff},
		Foreground: color.NRGBA{R: 0xe0, G: 0xe0, B: 0xe0, A: 0xff},
		Primary:    color.NRGBA{R: 0x2e, G: 0x7d, B: 0x32, A: 0xff},
		Disabled:   color.NRGBA{R: 0x44, G: 0x44, B: 0x44, A: 0xff},
	}
}

// Config is passed explicitly to the components that need it.
type Config struct {
	// LibraryPath is the JSON document backing the library.
	LibraryPath string
	// ThumbSize is the edge of the square box thumbnails are fitted into.
	ThumbSize int
	// ScalePresets are the quick scale choices on an overlay.
	ScalePresets []int
	// QuarantineCorrupt moves a damaged library aside on start-up instead
	// of refusing to load it.
	QuarantineCorrupt bool
	Theme             Theme
}

var userConfigDir = os.UserConfigDir

// DefaultLibraryPath returns <user config dir>/deskgif/library.json, falling
// back to the working directory when no config dir is known.
func DefaultLibraryPath() string {
	dir, err := userConfigDir()
	if err != nil || dir == "" {
		return libraryFileName
	}
	return filepath.Join(dir, appDirName, libraryFileName)
}

// Default returns the configuration used when nothing is overridden.
func Default() Config {
	return Config{
		LibraryPath:  DefaultLibraryPath(),
		ThumbSize:    DefaultThumbSize,
		ScalePresets: slices.Clone(DefaultScalePresets),
		Theme:        DefaultTheme(),
	}
}

// Adjustment describes one value Normalize had to change.
type Adjustment struct {
	Field     string
	Requested string
	Effective string
}

// Normalize forces out-of-range values back into range and returns what it
// changed so callers can log it.
func (c *Config) Normalize() []Adjustment {
	var adj []Adjustment
	if c.LibraryPath == "" {
		c.LibraryPath = DefaultLibraryPath()
		adj = append(adj, Adjustment{Field: "library_path", Requested: "", Effective: c.LibraryPath})
	}
	if clamped := min(max(c.ThumbSize, MinThumbSize), MaxThumbSize); clamped != c.ThumbSize {
		adj = append(adj, Adjustment{
			Field:     "thumb_size",
			Requested: fmt.Sprint(c.ThumbSize),
			Effective: fmt.Sprint(clamped),
		})
		c.ThumbSize = clamped
	}
	presets := cleanPresets(c.ScalePresets)
	if !slices.Equal(presets, c.ScalePresets) {
		adj = append(adj, Adjustment{
			Field:     "scale_presets",
			Requested: fmt.Sprint(c.ScalePresets),
			Effective: fmt.Sprint(presets),
		})
		c.ScalePresets = presets
	}
	return adj
}

// cleanPresets drops non-positive values and duplicates and sorts the rest.
// An empty result falls back to the defaults.
func cleanPresets(in []int) []int {
	out := make([]int, 0, len(in))
	for _, p := range in {
		if p > 0 && !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	slices.Sort(out)
	if len(out) == 0 {
		return slices.Clone(DefaultScalePresets)
	}
	return out
}
