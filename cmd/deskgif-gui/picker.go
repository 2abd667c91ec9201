package main

import (
	"errors"

	"github.com/ncruces/zenity"
)

var imageFilters = zenity.FileFilters{
	{Name: "Animated images", Patterns: []string{"*.gif", "*.GIF", "*.webp", "*.png", "*.jpg", "*.jpeg"}},
	{Name: "All files", Patterns: []string{"*"}},
}

// pickImageFiles shows the native multi-select file dialog. Cancel returns
// no paths and no error. It blocks, so callers run it off the UI goroutine.
var pickImageFiles = func() ([]string, error) {
	paths, err := zenity.SelectFileMultiple(
		zenity.Title("Add animated images"),
		imageFilters,
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return nil, nil
	}
	return paths, err
}
