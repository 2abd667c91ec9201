package main

import (
	"errors"
	"path/filepath"
	"slices"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/config"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/overlay"
	"github.com/oukeidos/deskgif/internal/textfit"
	"github.com/oukeidos/deskgif/internal/thumbnail"
)

const thumbLabelChars = 14

type overlayOpener func(e library.Entry, presets []int, observer overlay.Observer) (overlayHandle, error)

// libraryView shows the library as a grid of thumbnails. It keeps its own
// list of paths so the grid can be rebuilt without touching the store.
type libraryView struct {
	app       *deskgifApp
	store     *library.Store
	thumbs    *thumbnail.Cache
	thumbSize int
	presets   []int
	parent    fyne.Window

	paths    []string
	selected int
	grid     *widget.GridWrap
	current  overlayHandle

	openOverlay overlayOpener
	pickFiles   func() ([]string, error)
	showError   func(error)
	onSelect    func(path string)
	onChange    func()
}

func newLibraryView(a *deskgifApp, store *library.Store, cfg config.Config, parent fyne.Window) *libraryView {
	v := &libraryView{
		app:       a,
		store:     store,
		thumbs:    thumbnail.NewCache(),
		thumbSize: cfg.ThumbSize,
		presets:   cfg.ScalePresets,
		parent:    parent,
		selected:  -1,
		pickFiles: pickImageFiles,
	}
	v.openOverlay = func(e library.Entry, presets []int, observer overlay.Observer) (overlayHandle, error) {
		return newOverlayWindow(a, e, presets, observer)
	}
	v.showError = func(err error) {
		if parent == nil {
			return
		}
		dialog.ShowError(errors.New(apperrors.PublicMessage(err)), parent)
	}
	v.reload()
	return v
}

func (v *libraryView) reload() {
	v.paths = v.paths[:0]
	for _, e := range v.store.Items() {
		v.paths = append(v.paths, e.Path)
	}
	v.selected = -1
	v.refresh()
}

// refresh redraws the grid. The selection in v.selected is kept.
func (v *libraryView) refresh() {
	if v.grid != nil {
		if _, ok := v.selectedPath(); ok {
			v.grid.Select(v.selected)
		} else {
			v.grid.UnselectAll()
		}
		v.grid.Refresh()
	}
	if v.onChange != nil {
		v.onChange()
	}
}

func (v *libraryView) indexOf(path string) int {
	return slices.IndexFunc(v.paths, func(p string) bool { return library.SamePath(p, path) })
}

func (v *libraryView) selectedPath() (string, bool) {
	if v.selected < 0 || v.selected >= len(v.paths) {
		return "", false
	}
	return v.paths[v.selected], true
}

func (v *libraryView) setSelected(i int) {
	v.selected = i
	if path, ok := v.selectedPath(); ok && v.onSelect != nil {
		v.onSelect(path)
	}
}

// addFiles stores every candidate not already shown and returns how many
// were added.
func (v *libraryView) addFiles(candidates []string) int {
	added := 0
	for _, raw := range candidates {
		path, err := library.Canonicalize(raw)
		if err != nil {
			logger.Warn("Skipping file", "path", raw, "error", err)
			continue
		}
		if v.indexOf(path) >= 0 {
			logger.Debug("Already in library", "path", path)
			continue
		}
		if err := v.store.Add(path); err != nil {
			logger.Error("Failed to add file", "path", path, "error", err)
			v.showError(err)
			continue
		}
		e, _ := v.store.Get(path)
		v.paths = append(v.paths, e.Path)
		added++
	}
	if added > 0 {
		logger.Info("Files added", "count", added)
		v.warmThumbnails()
		v.refresh()
	}
	return added
}

func (v *libraryView) pickAndAdd() {
	v.goSafe("library.pick", func() {
		paths, err := v.pickFiles()
		if err != nil {
			logger.Error("File picker failed", "error", err)
			return
		}
		if len(paths) == 0 {
			return
		}
		v.doSafe("library.add", func() { v.addFiles(paths) })
	})
}

func (v *libraryView) remove(path string) {
	i := v.indexOf(path)
	if err := v.store.Remove(path); err != nil {
		logger.Error("Failed to remove file", "path", path, "error", err)
		v.showError(err)
		return
	}
	keep, had := v.selectedPath()
	if i >= 0 {
		v.paths = slices.Delete(v.paths, i, i+1)
	}
	v.thumbs.Forget(path)
	v.selected = -1
	if had && !library.SamePath(keep, path) {
		v.selected = v.indexOf(keep)
	}
	v.refresh()
}

func (v *libraryView) removeSelected() {
	if path, ok := v.selectedPath(); ok {
		v.remove(path)
	}
}

// launch replaces any overlay this view opened with one for path. Its close
// is routed back into the store.
func (v *libraryView) launch(path string) {
	e, err := v.store.EntryOrDefault(path)
	if err != nil {
		v.showError(err)
		return
	}
	v.stopOverlay()

	var handle overlayHandle
	observer := overlay.ObserverFunc(func(p string, x, y, scale int, opacity float64, speed int) {
		if v.current == handle {
			v.current = nil
		}
		v.overlayClosed(p, x, y, scale, opacity, speed)
	})
	handle, err = v.openOverlay(e, v.presets, observer)
	if err != nil {
		logger.Warn("Cannot display file", "path", e.Path, "error", err)
		v.showError(err)
		return
	}
	v.current = handle
}

func (v *libraryView) launchSelected() {
	if path, ok := v.selectedPath(); ok {
		v.launch(path)
	}
}

func (v *libraryView) overlayClosed(path string, x, y, scale int, opacity float64, speed int) {
	if err := v.store.SaveOverlayState(path, x, y, scale, opacity, speed); err != nil {
		logger.Error("Failed to save overlay state", "path", path, "error", err)
		v.showError(err)
		return
	}
	if v.indexOf(path) < 0 {
		v.paths = append(v.paths, path)
		v.refresh()
	} else if v.onChange != nil {
		v.onChange()
	}
}

// stopOverlay closes the overlay this view launched, if any.
func (v *libraryView) stopOverlay() {
	if v.current == nil {
		return
	}
	current := v.current
	v.current = nil
	current.Close()
}

func (v *libraryView) goSafe(scope string, fn func()) {
	if v.app != nil {
		v.app.safeGo(scope, fn)
		return
	}
	safeGo(scope, fn)
}

func (v *libraryView) doSafe(scope string, fn func()) {
	if v.app != nil {
		v.app.safeDo(scope, fn)
		return
	}
	safeDo(scope, fn)
}

// warmThumbnails decodes missing thumbnails off the UI goroutine and
// redraws the grid once they are ready.
func (v *libraryView) warmThumbnails() {
	if v.grid == nil {
		return
	}
	paths := slices.Clone(v.paths)
	size := v.thumbSize
	v.goSafe("library.thumbs", func() {
		for _, p := range paths {
			v.thumbs.Get(p, size)
		}
		v.doSafe("library.thumbs.refresh", func() {
			if v.grid != nil {
				v.grid.Refresh()
			}
		})
	})
}

func (v *libraryView) build() fyne.CanvasObject {
	cell := fyne.NewSize(float32(v.thumbSize)+24, float32(v.thumbSize)+48)
	v.grid = widget.NewGridWrap(
		func() int { return len(v.paths) },
		func() fyne.CanvasObject { return newThumbItem(v, cell) },
		func(id widget.GridWrapItemID, obj fyne.CanvasObject) {
			if id < 0 || id >= len(v.paths) {
				return
			}
			obj.(*thumbItem).bind(id, v.paths[id])
		},
	)
	v.grid.OnSelected = func(id widget.GridWrapItemID) { v.setSelected(id) }
	v.grid.OnUnselected = func(widget.GridWrapItemID) { v.selected = -1 }
	v.warmThumbnails()

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), v.pickAndAdd),
		widget.NewToolbarAction(theme.MediaPlayIcon(), v.launchSelected),
		widget.NewToolbarAction(theme.DeleteIcon(), v.removeSelected),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.MediaStopIcon(), v.stopOverlay),
	)
	return container.NewBorder(toolbar, nil, nil, nil, v.grid)
}

func (v *libraryView) showItemMenu(i int, at fyne.Position) {
	if i < 0 || i >= len(v.paths) || v.parent == nil {
		return
	}
	path := v.paths[i]
	menu := fyne.NewMenu("",
		fyne.NewMenuItem("Launch", func() { v.launch(path) }),
		fyne.NewMenuItem("Remove", func() { v.remove(path) }),
	)
	widget.ShowPopUpMenuAtPosition(menu, v.parent.Canvas(), at)
}

// thumbItem is one grid cell. It takes over the taps of the cell so a
// secondary tap and a double tap can be told apart from selection.
type thumbItem struct {
	widget.BaseWidget
	view  *libraryView
	index int
	cell  fyne.Size
	image *canvas.Image
	label *widget.Label
}

func newThumbItem(v *libraryView, cell fyne.Size) *thumbItem {
	t := &thumbItem{view: v, index: -1, cell: cell}
	t.image = canvas.NewImageFromResource(theme.BrokenImageIcon())
	t.image.FillMode = canvas.ImageFillContain
	t.image.SetMinSize(fyne.NewSize(float32(v.thumbSize), float32(v.thumbSize)))
	t.label = widget.NewLabel("")
	t.label.Alignment = fyne.TextAlignCenter
	t.label.Truncation = fyne.TextTruncateEllipsis
	t.ExtendBaseWidget(t)
	return t
}

func (t *thumbItem) bind(i int, path string) {
	t.index = i
	t.label.SetText(textfit.Truncate(filepath.Base(path), thumbLabelChars))
	img := t.view.thumbs.Get(path, t.view.thumbSize)
	if thumbnail.IsEmpty(img) {
		t.image.Image = nil
		t.image.Resource = theme.BrokenImageIcon()
	} else {
		t.image.Resource = nil
		t.image.Image = img
	}
	t.image.Refresh()
}

func (t *thumbItem) MinSize() fyne.Size {
	return t.cell
}

func (t *thumbItem) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(container.NewBorder(nil, t.label, nil, nil, t.image))
}

func (t *thumbItem) Tapped(*fyne.PointEvent) {
	if t.view.grid != nil && t.index >= 0 {
		t.view.grid.Select(t.index)
	}
}

func (t *thumbItem) DoubleTapped(*fyne.PointEvent) {
	if t.index >= 0 && t.index < len(t.view.paths) {
		t.view.launch(t.view.paths[t.index])
	}
}

func (t *thumbItem) TappedSecondary(ev *fyne.PointEvent) {
	t.Tapped(ev)
	t.view.showItemMenu(t.index, ev.AbsolutePosition)
}
