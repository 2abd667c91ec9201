package main

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"

	"github.com/oukeidos/deskgif/internal/version"
)

// setupTray installs the tray icon and menu. It reports false when the
// driver has no system tray, in which case closing the panel quits.
func (a *deskgifApp) setupTray() bool {
	desk, ok := a.app.(desktop.App)
	if !ok {
		return false
	}
	show := fyne.NewMenuItem("Show panel", a.showPanel)
	stop := fyne.NewMenuItem("Stop overlay", func() {
		if a.lib != nil {
			a.lib.stopOverlay()
		}
	})
	quit := fyne.NewMenuItem("Quit", a.quit)
	quit.IsQuit = true
	desk.SetSystemTrayMenu(fyne.NewMenu(version.Name, show, stop, fyne.NewMenuItemSeparator(), quit))
	desk.SetSystemTrayIcon(appIcon())
	return true
}
