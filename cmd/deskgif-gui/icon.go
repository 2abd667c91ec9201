package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

func appIcon() fyne.Resource {
	return theme.FileImageIcon()
}
