package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/deskgif/internal/apperrors"
	"github.com/oukeidos/deskgif/internal/library"
	"github.com/oukeidos/deskgif/internal/logger"
	"github.com/oukeidos/deskgif/internal/textfit"
)

const editTitleChars = 48

// editPage edits the record selected in the library view. Every change is
// written to the store at once and takes effect at the next launch.
type editPage struct {
	store   *library.Store
	presets []int
	parent  fyne.Window
	path    string

	title        *widget.Label
	opacity      *widget.Slider
	opacityLabel *widget.Label
	speed        *widget.Entry
	scale        *widget.Select
	posX, posY   *widget.Entry
	ghost        *widget.Check
	form         *fyne.Container

	loading bool
}

func newEditPage(store *library.Store, presets []int, parent fyne.Window) *editPage {
	return &editPage{store: store, presets: presets, parent: parent}
}

func scaleLabel(p int) string { return fmt.Sprintf("%d%%", p) }

// scaleOptions lists the presets in ascending order, with current added
// when it is not one of them.
func scaleOptions(presets []int, current int) []string {
	values := slices.Clone(presets)
	if !slices.Contains(values, current) {
		values = append(values, current)
	}
	slices.Sort(values)
	options := make([]string, 0, len(values))
	for _, v := range values {
		options = append(options, scaleLabel(v))
	}
	return options
}

func parsePercent(s string) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperrors.InvalidInput(fmt.Sprintf("%q is not a whole number", s))
	}
	return n, nil
}

func (p *editPage) build() fyne.CanvasObject {
	p.title = widget.NewLabelWithStyle("Select a file in the Library tab", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	p.opacityLabel = widget.NewLabel("")
	p.opacity = widget.NewSlider(library.MinOpacity*100, library.MaxOpacity*100)
	p.opacity.Step = 1
	p.opacity.OnChanged = func(v float64) { p.opacityLabel.SetText(fmt.Sprintf("%d%%", int(v+0.5))) }
	p.opacity.OnChangeEnded = func(v float64) { p.report(p.commitOpacity(v / 100)) }

	p.speed = widget.NewEntry()
	p.speed.SetPlaceHolder("100")
	p.speed.OnSubmitted = func(s string) { p.report(p.commitSpeed(s)) }

	p.scale = widget.NewSelect(scaleOptions(p.presets, library.DefaultScale), func(s string) { p.report(p.commitScale(s)) })

	p.posX = widget.NewEntry()
	p.posY = widget.NewEntry()
	applyPos := widget.NewButton("Apply", func() { p.report(p.commitPosition(p.posX.Text, p.posY.Text)) })

	p.ghost = widget.NewCheck("Ghost mode (ignore the mouse)", func(on bool) { p.report(p.commitGhost(on)) })

	p.form = container.NewVBox(
		widget.NewForm(
			widget.NewFormItem("Opacity", container.NewBorder(nil, nil, nil, p.opacityLabel, p.opacity)),
			widget.NewFormItem("Speed %", p.speed),
			widget.NewFormItem("Scale", p.scale),
			widget.NewFormItem("Position", container.NewGridWithColumns(3, p.posX, p.posY, applyPos)),
		),
		p.ghost,
		widget.NewLabel("Changes apply the next time the file is launched."),
	)
	p.form.Hide()
	return container.NewPadded(container.NewVBox(p.title, widget.NewSeparator(), p.form))
}

// show loads path into the form.
func (p *editPage) show(path string) {
	p.path = path
	if p.form == nil {
		return
	}
	e, err := p.store.EntryOrDefault(path)
	if err != nil {
		p.report(err)
		return
	}
	p.loading = true
	defer func() { p.loading = false }()

	p.title.SetText(textfit.TruncateLeft(filepath.Base(e.Path), editTitleChars))
	p.opacity.SetValue(e.Opacity * 100)
	p.speed.SetText(strconv.Itoa(e.Speed))
	p.scale.ClearSelected()
	p.scale.Options = scaleOptions(p.presets, e.Scale)
	p.scale.SetSelected(scaleLabel(e.Scale))
	p.posX.SetText(strconv.Itoa(e.PosX))
	p.posY.SetText(strconv.Itoa(e.PosY))
	p.ghost.SetChecked(e.Ghost)
	p.form.Show()
}

// clear empties the form when the shown record goes away.
func (p *editPage) clear() {
	p.path = ""
	if p.form == nil {
		return
	}
	p.title.SetText("Select a file in the Library tab")
	p.form.Hide()
}

func (p *editPage) active() bool {
	return p.path != "" && !p.loading
}

func (p *editPage) commitOpacity(v float64) error {
	if !p.active() {
		return nil
	}
	return p.store.SetOpacity(p.path, v)
}

func (p *editPage) commitSpeed(text string) error {
	if !p.active() {
		return nil
	}
	n, err := parsePercent(text)
	if err != nil {
		return err
	}
	if err := p.store.SetSpeed(p.path, n); err != nil {
		return err
	}
	if p.speed != nil {
		p.speed.SetText(strconv.Itoa(p.store.Speed(p.path)))
	}
	return nil
}

func (p *editPage) commitScale(text string) error {
	if !p.active() {
		return nil
	}
	n, err := parsePercent(text)
	if err != nil {
		return err
	}
	return p.store.SetScale(p.path, n)
}

func (p *editPage) commitPosition(xText, yText string) error {
	if !p.active() {
		return nil
	}
	x, err := strconv.Atoi(strings.TrimSpace(xText))
	if err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("x %q is not a whole number", xText))
	}
	y, err := strconv.Atoi(strings.TrimSpace(yText))
	if err != nil {
		return apperrors.InvalidInput(fmt.Sprintf("y %q is not a whole number", yText))
	}
	return p.store.SetPosition(p.path, x, y)
}

func (p *editPage) commitGhost(on bool) error {
	if !p.active() {
		return nil
	}
	return p.store.SetGhost(p.path, on)
}

func (p *editPage) report(err error) {
	if err == nil {
		return
	}
	logger.Warn("Edit rejected", "path", p.path, "error", err)
	if p.parent != nil {
		dialog.ShowError(errors.New(apperrors.PublicMessage(err)), p.parent)
	}
}
