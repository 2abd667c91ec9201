package main

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/deskgif/internal/anim"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/overlay"
)

var speedPresets = []int{25, 50, 100, 150, 200, 400}

var loadAnimation = anim.Load

// overlayHandle is what the library view keeps of a launched overlay.
type overlayHandle interface {
	Path() string
	Close()
}

type overlayWindow struct {
	app    *deskgifApp
	win    fyne.Window
	state  *overlay.State
	frames []anim.Frame
	img    *canvas.Image

	mu       sync.Mutex
	clock    *anim.Clock
	stop     chan struct{}
	stopOnce sync.Once
}

func newOverlayWindow(a *deskgifApp, e library.Entry, presets []int, observer overlay.Observer) (overlayHandle, error) {
	animation, err := loadAnimation(e.Path)
	if err != nil {
		return nil, err
	}

	fa := fyne.CurrentApp()
	var w fyne.Window
	if drv, ok := fa.Driver().(desktop.Driver); ok {
		w = drv.CreateSplashWindow()
	} else {
		w = fa.NewWindow(e.Path)
	}
	w.SetPadded(false)

	o := &overlayWindow{
		app:    a,
		win:    w,
		state:  overlay.New(e, animation.Size, presets, observer),
		frames: animation.Frames,
		stop:   make(chan struct{}),
	}
	o.state.Pinned = !nativeWindowOps
	o.clock = anim.NewClock(animation, o.state.Speed)
	o.img = canvas.NewImageFromImage(o.frames[0].Image)
	o.img.FillMode = canvas.ImageFillStretch
	o.img.ScaleMode = canvas.ImageScaleSmooth

	w.SetContent(container.NewStack(o.img, newOverlaySurface(o)))
	w.SetCloseIntercept(o.Close)
	o.applyScale()
	o.applyOpacity()
	w.Show()
	applyWindowStyle(w, o.state.Ghost, o.state.Opacity)
	placeWindow(w, o.state.X, o.state.Y)

	if len(o.frames) > 1 {
		o.goSafe("overlay.play", o.play)
	}
	logger.Info("Overlay opened", "path", e.Path, "frames", len(o.frames), "scale", o.state.Scale, "ghost", o.state.Ghost)
	return o, nil
}

func (o *overlayWindow) Path() string {
	return o.state.Path
}

// Close stops playback, reports the final state and closes the window.
func (o *overlayWindow) Close() {
	if o.state.Closed() {
		return
	}
	o.stopOnce.Do(func() { close(o.stop) })
	o.state.Close()
	o.win.Close()
	pos := o.state.Position()
	logger.Info("Overlay closed", "path", o.state.Path, "x", pos.X, "y", pos.Y, "scale", o.state.Scale)
}

func (o *overlayWindow) goSafe(scope string, fn func()) {
	if o.app != nil {
		o.app.safeGo(scope, fn)
		return
	}
	safeGo(scope, fn)
}

func (o *overlayWindow) doSafe(scope string, fn func()) {
	if o.app != nil {
		o.app.safeDo(scope, fn)
		return
	}
	safeDo(scope, fn)
}

func (o *overlayWindow) play() {
	o.mu.Lock()
	delay := o.clock.Delay()
	o.mu.Unlock()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	for {
		select {
		case <-o.stop:
			return
		case <-timer.C:
		}
		o.mu.Lock()
		idx := o.clock.Advance()
		delay = o.clock.Delay()
		o.mu.Unlock()

		frame := o.frames[idx].Image
		o.doSafe("overlay.frame", func() {
			if o.state.Closed() {
				return
			}
			o.img.Image = frame
			o.img.Refresh()
		})
		timer.Reset(delay)
	}
}

func (o *overlayWindow) applyScale() {
	size := o.state.ScaledSize()
	fs := fyne.NewSize(float32(size.X), float32(size.Y))
	o.img.SetMinSize(fs)
	o.win.Resize(fs)
}

// Where the OS can fade the whole window that is used, otherwise the image
// itself is drawn translucent.
func (o *overlayWindow) applyOpacity() {
	if nativeWindowOps {
		o.img.Translucency = 0
	} else {
		o.img.Translucency = 1 - o.state.Opacity
	}
	o.img.Refresh()
}

func (o *overlayWindow) setScale(percent int) {
	o.state.ApplyScale(percent)
	o.applyScale()
}

func (o *overlayWindow) setOpacity(v float64) {
	o.state.SetOpacity(v)
	o.applyOpacity()
	applyWindowStyle(o.win, o.state.Ghost, o.state.Opacity)
}

func (o *overlayWindow) setSpeed(percent int) {
	speed := o.state.SetSpeed(percent)
	o.mu.Lock()
	o.clock.SetSpeed(speed)
	o.mu.Unlock()
}

// screenPoint prefers the real cursor position. Without native placement
// the window never moves, so canvas coordinates are just as good.
func (o *overlayWindow) screenPoint(pos fyne.Position) image.Point {
	if p, ok := cursorPosition(); ok {
		return p
	}
	return image.Pt(int(pos.X), int(pos.Y))
}

func (o *overlayWindow) press(pos fyne.Position) {
	o.state.PressPrimary(o.screenPoint(pos))
}

func (o *overlayWindow) drag(pos fyne.Position) {
	if o.state.MoveTo(o.screenPoint(pos)) {
		placeWindow(o.win, o.state.X, o.state.Y)
	}
}

func (o *overlayWindow) release() {
	o.state.Release()
}

func (o *overlayWindow) menu(at fyne.Position) *fyne.Menu {
	scaleItems := make([]*fyne.MenuItem, 0, len(o.state.Presets))
	for _, p := range o.state.Presets {
		p := p
		item := fyne.NewMenuItem(fmt.Sprintf("%d%%", p), func() { o.setScale(p) })
		item.Checked = o.state.IsCurrentPreset(p)
		scaleItems = append(scaleItems, item)
	}
	scale := fyne.NewMenuItem("Scale", nil)
	scale.ChildMenu = fyne.NewMenu("", scaleItems...)

	speedItems := make([]*fyne.MenuItem, 0, len(speedPresets))
	for _, p := range speedPresets {
		p := p
		item := fyne.NewMenuItem(fmt.Sprintf("%d%%", p), func() { o.setSpeed(p) })
		item.Checked = o.state.Speed == p
		speedItems = append(speedItems, item)
	}
	speed := fyne.NewMenuItem("Speed", nil)
	speed.ChildMenu = fyne.NewMenu("", speedItems...)

	opacity := fyne.NewMenuItem(fmt.Sprintf("Opacity (%d%%)...", int(o.state.Opacity*100+0.5)), func() {
		o.showOpacitySlider(at)
	})
	return fyne.NewMenu("",
		scale,
		speed,
		opacity,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Close", o.Close),
	)
}

func (o *overlayWindow) showMenu(at fyne.Position) {
	if o.state.Ghost || o.state.Closed() {
		return
	}
	widget.ShowPopUpMenuAtPosition(o.menu(at), o.win.Canvas(), at)
}

func (o *overlayWindow) showOpacitySlider(at fyne.Position) {
	label := widget.NewLabel("")
	setLabel := func(v float64) { label.SetText(fmt.Sprintf("Opacity %d%%", int(v+0.5))) }

	slider := widget.NewSlider(library.MinOpacity*100, library.MaxOpacity*100)
	slider.Step = 1
	slider.Value = o.state.Opacity * 100
	setLabel(slider.Value)
	slider.OnChanged = func(v float64) {
		setLabel(v)
		o.setOpacity(v / 100)
	}

	pop := widget.NewPopUp(container.NewVBox(label, slider), o.win.Canvas())
	pop.Resize(fyne.NewSize(180, pop.MinSize().Height))
	pop.ShowAtPosition(at)
}

// overlaySurface sits above the image and turns pointer input into drag
// and menu actions. Ghost overlays get none of it.
type overlaySurface struct {
	widget.BaseWidget
	o *overlayWindow
}

func newOverlaySurface(o *overlayWindow) *overlaySurface {
	s := &overlaySurface{o: o}
	s.ExtendBaseWidget(s)
	return s
}

func (s *overlaySurface) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func (s *overlaySurface) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button == desktop.MouseButtonPrimary {
		s.o.press(ev.AbsolutePosition)
	}
}

func (s *overlaySurface) MouseUp(*desktop.MouseEvent) {
	s.o.release()
}

func (s *overlaySurface) Dragged(ev *fyne.DragEvent) {
	s.o.drag(ev.AbsolutePosition)
}

func (s *overlaySurface) DragEnd() {
	s.o.release()
}

func (s *overlaySurface) TappedSecondary(ev *fyne.PointEvent) {
	s.o.showMenu(ev.AbsolutePosition)
}
