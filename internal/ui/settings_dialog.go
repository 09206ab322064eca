package ui

import (
	"sort"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/photo-gallery/internal/config"
)

// Settings dialog sizing
const (
	SettingsDialogWidth  = 420
	SettingsDialogHeight = 380
)

// SettingsDialog represents the settings configuration dialog
type SettingsDialog struct {
	settings     *config.Settings
	localization *Localization
	window       fyne.Window
	dialog       *dialog.ConfirmDialog
	onSaved      func()

	// UI components
	columnsSelect   *widget.Select
	topMarginEntry  *widget.Entry
	closeTextEntry  *widget.Entry
	tiltCheck       *widget.Check
	languageSelect  *widget.Select
	languageByLabel map[string]string
}

// NewSettingsDialog creates a new settings dialog. onSaved runs after the
// settings were stored.
func NewSettingsDialog(settings *config.Settings, localization *Localization, window fyne.Window, onSaved func()) *SettingsDialog {
	sd := &SettingsDialog{
		settings:     settings,
		localization: localization,
		window:       window,
		onSaved:      onSaved,
	}

	sd.createUI()
	return sd
}

// Show displays the settings dialog
func (sd *SettingsDialog) Show() {
	sd.loadCurrentSettings()
	sd.dialog.Show()
}

// createUI creates the settings dialog UI
func (sd *SettingsDialog) createUI() {
	columnOptions := make([]string, 0, config.MaxColumns)
	for i := config.MinColumns; i <= config.MaxColumns; i++ {
		columnOptions = append(columnOptions, strconv.Itoa(i))
	}
	sd.columnsSelect = widget.NewSelect(columnOptions, nil)

	sd.topMarginEntry = widget.NewEntry()
	sd.topMarginEntry.SetPlaceHolder("0")

	sd.closeTextEntry = widget.NewEntry()
	sd.closeTextEntry.SetPlaceHolder(config.DefaultCloseText)

	sd.tiltCheck = widget.NewCheck(sd.localization.GetText(KeyEnableTilt), nil)

	sd.languageByLabel = make(map[string]string)
	languageLabels := make([]string, 0)
	for code, label := range sd.settings.GetLanguageOptions() {
		sd.languageByLabel[label] = code
		languageLabels = append(languageLabels, label)
	}
	sort.Strings(languageLabels)
	sd.languageSelect = widget.NewSelect(languageLabels, nil)

	form := widget.NewForm(
		widget.NewFormItem(sd.localization.GetText(KeyColumns), sd.columnsSelect),
		widget.NewFormItem(sd.localization.GetText(KeyTopMargin), sd.topMarginEntry),
		widget.NewFormItem(sd.localization.GetText(KeyCloseText), sd.closeTextEntry),
		widget.NewFormItem("", sd.tiltCheck),
		widget.NewFormItem(sd.localization.GetText(KeyLanguage), sd.languageSelect),
	)

	sd.dialog = dialog.NewCustomConfirm(
		sd.localization.GetText(KeySettings),
		sd.localization.GetText(KeySave),
		sd.localization.GetText(KeyCancel),
		container.NewPadded(form),
		sd.onSave,
		sd.window,
	)

	sd.dialog.Resize(fyne.NewSize(SettingsDialogWidth, SettingsDialogHeight))
}

// loadCurrentSettings loads current settings into the UI
func (sd *SettingsDialog) loadCurrentSettings() {
	sd.columnsSelect.SetSelected(strconv.Itoa(sd.settings.GetColumns()))
	sd.topMarginEntry.SetText(strconv.FormatFloat(float64(sd.settings.GetTopMargin()), 'f', -1, 32))
	sd.closeTextEntry.SetText(sd.settings.GetCloseText())
	sd.tiltCheck.SetChecked(sd.settings.GetEnableTilt())

	lang := sd.settings.GetLanguage()
	for label, code := range sd.languageByLabel {
		if code == lang {
			sd.languageSelect.SetSelected(label)
		}
	}
}

// onSave handles saving the settings
func (sd *SettingsDialog) onSave(confirmed bool) {
	if !confirmed {
		return
	}
	sd.apply()
	if sd.onSaved != nil {
		sd.onSaved()
	}
	dialog.ShowInformation(sd.localization.GetText(KeySettings), sd.localization.GetText(KeySettingsSaved), sd.window)
}

// apply writes the form values to the settings
func (sd *SettingsDialog) apply() {
	if columns, err := strconv.Atoi(sd.columnsSelect.Selected); err == nil {
		sd.settings.SetColumns(columns)
	}
	if margin, err := strconv.ParseFloat(sd.topMarginEntry.Text, 32); err == nil {
		sd.settings.SetTopMargin(float32(margin))
	}
	sd.settings.SetCloseText(sd.closeTextEntry.Text)
	sd.settings.SetEnableTilt(sd.tiltCheck.Checked)
	if code, ok := sd.languageByLabel[sd.languageSelect.Selected]; ok {
		sd.settings.SetLanguage(code)
	}
}
