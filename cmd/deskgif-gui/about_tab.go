package main

import (
	"net/url"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/oukeidos/deskgif/internal/licenses"
	"github.com/oukeidos/deskgif/internal/textfit"
	"github.com/oukeidos/deskgif/internal/version"
)

const (
	githubURL      = "https://github.com/oukeidos/deskgif"
	aboutPathChars = 60
)

func (a *deskgifApp) buildAboutTab() fyne.CanvasObject {
	aboutSection := container.NewVBox(
		widget.NewLabelWithStyle("About", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("App", widget.NewLabel(version.Name)),
			widget.NewFormItem("Version", widget.NewLabel(version.Version)),
			widget.NewFormItem("Commit", widget.NewLabel(version.Commit)),
			widget.NewFormItem("Build", widget.NewLabel(version.BuildDate)),
			widget.NewFormItem("Links", buildLinksRow()),
		),
	)

	quarantine := widget.NewCheck("Move a damaged library aside at start-up", func(on bool) {
		a.config.QuarantineCorrupt = on
		a.persistConfig()
	})
	quarantine.SetChecked(a.config.QuarantineCorrupt)

	settingsSection := container.NewVBox(
		widget.NewLabelWithStyle("Library", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		widget.NewForm(
			widget.NewFormItem("File", widget.NewLabel(textfit.TruncateLeft(a.config.LibraryPath, aboutPathChars))),
		),
		quarantine,
	)

	viewNoticesBtn := widget.NewButton("View Third-Party Notices", func() {
		text, err := licenses.Notices()
		if err != nil {
			dialog.ShowError(err, a.window)
			return
		}
		showMarkdownDialog(a.window, "Third-Party Notices", text)
	})

	licensesSection := container.NewVBox(
		widget.NewLabelWithStyle("Licenses", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(viewNoticesBtn),
	)

	return container.NewPadded(container.NewVScroll(container.NewVBox(
		aboutSection,
		widget.NewSeparator(),
		settingsSection,
		widget.NewSeparator(),
		licensesSection,
	)))
}

func buildLinksRow() fyne.CanvasObject {
	githubLink := newHyperlink("GitHub", githubURL)
	return container.NewHBox(githubLink)
}

func newHyperlink(label, raw string) *widget.Hyperlink {
	u, _ := url.Parse(raw)
	return widget.NewHyperlink(label, u)
}

func showMarkdownDialog(w fyne.Window, title, text string) {
	body := widget.NewRichTextFromMarkdown(text)
	body.Wrapping = fyne.TextWrapWord
	scroll := container.NewScroll(body)
	scroll.SetMinSize(fyne.NewSize(520, 360))
	d := dialog.NewCustom(title, "Close", scroll, w)
	d.Resize(fyne.NewSize(560, 420))
	d.Show()
}
