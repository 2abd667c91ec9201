//go:build !windows

package main

import (
	"image"
	"sync"

	"fyne.io/fyne/v2"

	"github.com/oukeidos/deskgif/internal/logger"
)

const nativeWindowOps = false

var nativeNoticeOnce sync.Once

func noteNativeUnsupported() {
	nativeNoticeOnce.Do(func() {
		logger.Debug("Native overlay placement, topmost and click-through are only implemented on Windows")
	})
}

func placeWindow(fyne.Window, int, int) {
	noteNativeUnsupported()
}

func applyWindowStyle(fyne.Window, bool, float64) {
	noteNativeUnsupported()
}

func cursorPosition() (image.Point, bool) {
	return image.Point{}, false
}
