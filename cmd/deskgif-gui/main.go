package main

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/config"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/textfit"
	"github.com/oukeidos/deskgif/internal/version"
)

const infoPathChars = 48

// panelTheme recolours the default theme from the configured palette.
type panelTheme struct {
	fyne.Theme
	palette config.Theme
}

func (t panelTheme) Color(n fyne.ThemeColorName, v fyne.ThemeVariant) color.Color {
	switch n {
	case theme.ColorNameBackground:
		return t.palette.Background
	case theme.ColorNameForeground:
		return t.palette.Foreground
	case theme.ColorNamePrimary:
		return t.palette.Primary
	case theme.ColorNameDisabled:
		return t.palette.Disabled
	}
	return t.Theme.Color(n, v)
}

type deskgifApp struct {
	app    fyne.App
	window fyne.Window
	config config.Config
	prefs  prefStore

	store *library.Store
	lib   *libraryView
	edit  *editPage

	tabs       *container.AppTabs
	libraryTab *container.TabItem
	info       *widget.Label

	hasTray         bool
	quitOnce        sync.Once
	panicNoticeOnce sync.Once
}

func newDeskgifApp(fa fyne.App, w fyne.Window, cfg config.Config, prefs prefStore) *deskgifApp {
	a := &deskgifApp{app: fa, window: w, config: cfg, prefs: prefs}
	a.info = widget.NewLabel("")
	w.SetContent(container.NewCenter(widget.NewLabel("Loading library...")))
	return a
}

func (a *deskgifApp) persistConfig() {
	saveConfig(a.prefs, a.config)
}

// openStore loads the library. A damaged document is offered for
// quarantine; any other failure ends the app after telling the user.
func (a *deskgifApp) openStore() {
	store, err := library.Open(a.config.LibraryPath, library.Options{QuarantineCorrupt: a.config.QuarantineCorrupt})
	switch {
	case err == nil:
		if q := store.Quarantined(); q != "" {
			dialog.ShowInformation("Library Recovered", "The damaged library was moved to:\n"+q, a.window)
		}
		a.attach(store)
	case apperrors.Is(err, apperrors.KindCorruptLibrary):
		logger.Error("Library is damaged", "path", a.config.LibraryPath, "error", err)
		a.offerQuarantine(err)
	default:
		logger.Error("Library could not be opened", "path", a.config.LibraryPath, "error", err)
		a.fail(err)
	}
}

func (a *deskgifApp) offerQuarantine(cause error) {
	msg := widget.NewLabel(apperrors.Detail(cause))
	msg.Wrapping = fyne.TextWrapWord
	d := dialog.NewCustomConfirm("Library Damaged", "Move aside and start empty", "Quit", msg, func(ok bool) {
		if !ok {
			a.quit()
			return
		}
		store, err := library.Open(a.config.LibraryPath, library.Options{QuarantineCorrupt: true})
		if err != nil {
			a.fail(err)
			return
		}
		logger.Warn("Started with an empty library", "quarantined", store.Quarantined())
		a.attach(store)
	}, a.window)
	d.Resize(fyne.NewSize(520, 220))
	d.Show()
}

func (a *deskgifApp) fail(err error) {
	d := dialog.NewError(errors.New(apperrors.Detail(err)), a.window)
	d.SetOnClosed(a.quit)
	d.Show()
}

func (a *deskgifApp) attach(store *library.Store) {
	a.store = store
	a.lib = newLibraryView(a, store, a.config, a.window)
	a.edit = newEditPage(store, a.config.ScalePresets, a.window)
	a.lib.onSelect = a.edit.show
	a.lib.onChange = a.updateInfo

	a.libraryTab = container.NewTabItemWithIcon("Library", theme.GridIcon(), a.lib.build())
	editTab := container.NewTabItemWithIcon("Edit", theme.DocumentCreateIcon(), a.edit.build())
	aboutTab := container.NewTabItemWithIcon("About", theme.InfoIcon(), a.buildAboutTab())
	a.tabs = container.NewAppTabs(a.libraryTab, editTab, aboutTab)
	a.tabs.SetTabLocation(container.TabLocationLeading)
	a.tabs.OnSelected = func(t *container.TabItem) {
		if t == editTab {
			if path, ok := a.lib.selectedPath(); ok {
				a.edit.show(path)
			}
		}
	}

	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		if ev.Name == fyne.KeyDelete && a.tabs.Selected() == a.libraryTab {
			a.lib.removeSelected()
		}
	})
	a.window.SetContent(container.NewBorder(nil, a.info, nil, nil, a.tabs))
	a.updateInfo()
	logger.Info("Library opened", "path", store.Path(), "items", store.Len())
}

func (a *deskgifApp) updateInfo() {
	if a.store == nil {
		return
	}
	a.info.SetText(fmt.Sprintf("%d files  %s", a.store.Len(), textfit.TruncateLeft(a.store.Path(), infoPathChars)))
	if a.edit != nil && a.edit.path != "" && !a.store.Has(a.edit.path) {
		a.edit.clear()
	}
}

func (a *deskgifApp) showPanel() {
	a.window.Show()
	a.window.RequestFocus()
}

// quit closes the running overlay first so its state is saved.
func (a *deskgifApp) quit() {
	a.quitOnce.Do(func() {
		if a.lib != nil {
			a.lib.stopOverlay()
		}
		logger.Info("Quitting")
		a.app.Quit()
	})
}

func (a *deskgifApp) watchInterrupt() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	a.safeGo("signal", func() {
		sig := <-ch
		logger.Info("Signal received", "signal", sig.String())
		a.safeDo("signal.quit", a.quit)
	})
}

func main() {
	logger.Init(logger.LevelInfo, nil)
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Unrecovered GUI panic", "scope", "main", "panic", fmt.Sprint(r))
			os.Exit(1)
		}
	}()

	fa := app.NewWithID("com.deskgif.app")
	prefs := fa.Preferences()
	cfg := loadConfig(prefs)
	fa.Settings().SetTheme(panelTheme{Theme: theme.DefaultTheme(), palette: cfg.Theme})
	fa.SetIcon(appIcon())

	w := fa.NewWindow(version.Name)
	w.SetIcon(appIcon())
	w.SetMaster()
	w.Resize(fyne.NewSize(720, 480))
	w.CenterOnScreen()

	a := newDeskgifApp(fa, w, cfg, prefs)
	a.hasTray = a.setupTray()
	w.SetCloseIntercept(func() {
		if a.hasTray {
			w.Hide()
			return
		}
		a.quit()
	})
	a.watchInterrupt()
	a.openStore()

	w.ShowAndRun()
}
