//go:build windows

package main

import (
	"image"
	"unsafe"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver"
	"golang.org/x/sys/windows"

	"github.com/oukeidos/deskgif/internal/logger"
)

var (
	user32                         = windows.NewLazySystemDLL("user32.dll")
	procSetWindowPos               = user32.NewProc("SetWindowPos")
	procGetWindowLongW             = user32.NewProc("GetWindowLongW")
	procSetWindowLongW             = user32.NewProc("SetWindowLongW")
	procSetLayeredWindowAttributes = user32.NewProc("SetLayeredWindowAttributes")
	procGetCursorPos               = user32.NewProc("GetCursorPos")
)

const (
	wsExTransparent = 0x00000020
	wsExToolWindow  = 0x00000080
	wsExLayered     = 0x00080000

	swpNoSize       = 0x0001
	swpNoMove       = 0x0002
	swpNoActivate   = 0x0010
	swpFrameChanged = 0x0020

	lwaAlpha = 0x00000002
)

// GWL_EXSTYLE is negative; a variable keeps the uintptr conversion legal.
var gwlExStyle int32 = -20

var hwndTopmost = ^uintptr(0)

const nativeWindowOps = true

type point struct {
	X, Y int32
}

func windowHandle(w fyne.Window) uintptr {
	nw, ok := w.(driver.NativeWindow)
	if !ok {
		return 0
	}
	var hwnd uintptr
	nw.RunNative(func(ctx any) {
		if wc, ok := ctx.(driver.WindowsWindowContext); ok {
			hwnd = wc.HWND
		}
	})
	return hwnd
}

// placeWindow moves w to screen position (x, y) and keeps it above other
// windows.
func placeWindow(w fyne.Window, x, y int) {
	hwnd := windowHandle(w)
	if hwnd == 0 {
		return
	}
	r, _, err := procSetWindowPos.Call(hwnd, hwndTopmost,
		uintptr(int32(x)), uintptr(int32(y)), 0, 0,
		swpNoSize|swpNoActivate)
	if r == 0 {
		logger.Debug("SetWindowPos failed", "error", err)
	}
}

// applyWindowStyle hides w from the task bar, sets its alpha and, in
// ghost mode, lets clicks fall through to whatever is underneath.
func applyWindowStyle(w fyne.Window, ghost bool, opacity float64) {
	hwnd := windowHandle(w)
	if hwnd == 0 {
		return
	}
	style, _, _ := procGetWindowLongW.Call(hwnd, uintptr(gwlExStyle))
	style |= wsExLayered | wsExToolWindow
	if ghost {
		style |= wsExTransparent
	} else {
		style &^= wsExTransparent
	}
	procSetWindowLongW.Call(hwnd, uintptr(gwlExStyle), style)

	alpha := uintptr(min(max(opacity, 0), 1) * 255)
	if r, _, err := procSetLayeredWindowAttributes.Call(hwnd, 0, alpha, lwaAlpha); r == 0 {
		logger.Debug("SetLayeredWindowAttributes failed", "error", err)
	}
	procSetWindowPos.Call(hwnd, hwndTopmost, 0, 0, 0, 0,
		swpNoMove|swpNoSize|swpNoActivate|swpFrameChanged)
}

// cursorPosition returns the pointer in screen coordinates.
func cursorPosition() (image.Point, bool) {
	var p point
	r, _, _ := procGetCursorPos.Call(uintptr(unsafe.Pointer(&p)))
	if r == 0 {
		return image.Point{}, false
	}
	return image.Pt(int(p.X), int(p.Y)), true
}
