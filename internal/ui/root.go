package ui

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/photo-gallery/internal/config"
	"github.com/ytget/photo-gallery/internal/model"
	"github.com/ytget/photo-gallery/internal/platform"
	"github.com/ytget/photo-gallery/internal/prefetch"
)

// RootUI is the main window: a toolbar over the gallery of the opened
// folder or manifest.
type RootUI struct {
	window       fyne.Window
	settings     *config.Settings
	localization *Localization
	source       platform.ImageSource
	prefetch     *prefetch.Service

	selectedID string
	title      string
	images     []model.ImageDescriptor

	gallery     *Gallery
	statusLabel *widget.Label
	openDirBtn  *widget.Button
	openManBtn  *widget.Button
	center      *fyne.Container
}

// NewRootUI creates and initializes the main UI
func NewRootUI(window fyne.Window, settings *config.Settings, source platform.ImageSource) *RootUI {
	localization := NewLocalization()
	localization.SetLanguage(settings.GetLanguage())

	ui := &RootUI{
		window:       window,
		settings:     settings,
		localization: localization,
		source:       source,
		prefetch:     prefetch.NewService(source, settings.GetMaxParallelProbes()),
	}
	ui.prefetch.SetUpdateCallback(func(task prefetch.Task) {
		if task.Status.IsFinished() {
			fyne.Do(ui.updateStatus)
		}
	})

	window.SetTitle(localization.GetText(KeyAppTitle))
	ui.setupUI()
	return ui
}

// setupUI creates and arranges all UI components
func (ui *RootUI) setupUI() {
	ui.createMenu()

	settingsBtn := widget.NewButton(IconSettings, ui.onShowSettings)
	settingsBtn.Importance = widget.LowImportance
	ui.openDirBtn = widget.NewButton(IconFolder+" "+ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder)
	ui.openManBtn = widget.NewButton(IconFile+" "+ui.localization.GetText(KeyOpenManifest), ui.onOpenManifest)

	ui.statusLabel = widget.NewLabel("")
	ui.statusLabel.Truncation = fyne.TextTruncateEllipsis

	top := container.NewBorder(nil, nil,
		container.NewHBox(settingsBtn, ui.openDirBtn, ui.openManBtn), nil, ui.statusLabel)

	ui.center = container.NewStack(widget.NewLabel(ui.localization.GetText(KeyNoImages)))
	ui.window.SetContent(container.NewBorder(top, nil, nil, nil, ui.center))
}

// createMenu creates the application menu
func (ui *RootUI) createMenu() {
	fileMenu := fyne.NewMenu(ui.localization.GetText(KeyFile),
		fyne.NewMenuItem(ui.localization.GetText(KeyOpenFolder), ui.onOpenFolder),
		fyne.NewMenuItem(ui.localization.GetText(KeyOpenManifest), ui.onOpenManifest),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem(ui.localization.GetText(KeySettings), ui.onShowSettings),
	)

	languageMenu := fyne.NewMenu(ui.localization.GetText(KeyLanguage))
	for code, name := range ui.localization.GetAvailableLanguages() {
		langCode := code
		langItem := fyne.NewMenuItem(name, func() {
			ui.onLanguageChange(langCode)
		})
		langItem.Checked = ui.localization.GetCurrentLanguage() == code
		languageMenu.Items = append(languageMenu.Items, langItem)
	}

	ui.window.SetMainMenu(fyne.NewMainMenu(fileMenu, languageMenu))
}

// Gallery returns the gallery currently shown, or nil
func (ui *RootUI) Gallery() *Gallery {
	return ui.gallery
}

// SetSelectedImageID sets the image marked as selected in the grid
func (ui *RootUI) SetSelectedImageID(id string) {
	ui.selectedID = id
	if ui.gallery != nil {
		ui.gallery.SetSelectedImageID(id)
	}
}

// LoadSource opens a YAML manifest or an image directory
func (ui *RootUI) LoadSource(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}

	var (
		images []model.ImageDescriptor
		title  string
	)
	if info.IsDir() {
		images, err = platform.ScanDirectory(path)
		title = filepath.Base(path)
	} else {
		var m *platform.Manifest
		m, err = platform.LoadManifest(path)
		if m != nil {
			images, title = m.Images, m.Title
			if m.Columns > 0 {
				ui.settings.SetColumns(m.Columns)
			}
		}
		if title == "" {
			title = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
	}
	if err != nil {
		return err
	}

	ui.settings.SetLastSource(path)
	ui.SetImages(title, images)
	slog.Info("Gallery source loaded", "path", path, "images", len(images))
	return nil
}

// SetImages rebuilds the gallery for images
func (ui *RootUI) SetImages(title string, images []model.ImageDescriptor) {
	ui.title = title
	ui.images = images

	ui.prefetch.Reset()
	ui.prefetch.SetMaxParallel(ui.settings.GetMaxParallelProbes())
	ui.prefetch.AddAll(images)

	ui.rebuildGallery()
}

// rebuildGallery recreates the gallery so that new settings take effect
func (ui *RootUI) rebuildGallery() {
	if ui.gallery != nil {
		ui.gallery.Dispose()
		ui.gallery = nil
	}

	ui.updateStatus()
	if len(ui.images) == 0 {
		ui.center.Objects = []fyne.CanvasObject{widget.NewLabel(ui.localization.GetText(KeyNoImages))}
		ui.center.Refresh()
		return
	}

	ui.gallery = NewGallery(GalleryOptions{
		Images:               ui.images,
		NumColumns:           ui.settings.GetColumns(),
		TopMargin:            ui.settings.GetTopMargin(),
		SelectedImageID:      ui.selectedID,
		CloseText:            ui.settings.GetCloseText(),
		InfoTitleStyle:       fyne.TextStyle{Bold: true},
		InfoDescriptionStyle: fyne.TextStyle{Italic: true},
		EnableTilt:           ui.settings.GetEnableTilt(),
		OnPressImage:         ui.onPressImage,
		OnLongPressImage:     ui.onRevealImage,
		Source:               ui.source,
		FadeDuration:         ui.settings.GetFadeDuration(),
		Localization:         ui.localization,
	})
	ui.center.Objects = []fyne.CanvasObject{ui.gallery}
	ui.center.Refresh()
}

func (ui *RootUI) updateStatus() {
	if ui.title == "" {
		ui.statusLabel.SetText("")
		return
	}
	text := fmt.Sprintf("%s%s%d", ui.title, MiddleDotSeparator, len(ui.images))
	if failed := ui.prefetch.Stats().Failed; failed > 0 {
		text += MiddleDotSeparator + fmt.Sprintf(ui.localization.GetText(KeyUnreadable), failed)
	}
	ui.statusLabel.SetText(text)
}

func (ui *RootUI) onPressImage(id string) {
	slog.Debug("Image pressed", "id", id)
}

// onRevealImage shows the long-pressed image in the system file manager
func (ui *RootUI) onRevealImage(id string) {
	idx := model.IndexOf(ui.images, id)
	if idx < 0 {
		return
	}
	uri := ui.images[idx].FullSource()
	if err := platform.OpenFileInManager(uri); err != nil {
		slog.Warn("Failed to reveal image", "id", id, "uri", uri, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorOpeningFile), err), ui.window)
	}
}

func (ui *RootUI) onOpenFolder() {
	d := dialog.NewFolderOpen(func(uri fyne.ListableURI, err error) {
		if err != nil || uri == nil {
			return
		}
		ui.loadAndReport(uri.Path())
	}, ui.window)
	ui.setDialogLocation(d)
	d.Show()
}

func (ui *RootUI) onOpenManifest() {
	d := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
		if err != nil || rc == nil {
			return
		}
		path := rc.URI().Path()
		rc.Close()
		ui.loadAndReport(path)
	}, ui.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".yaml", ".yml"}))
	ui.setDialogLocation(d)
	d.Show()
}

// setDialogLocation starts file dialogs in the last opened folder
func (ui *RootUI) setDialogLocation(d *dialog.FileDialog) {
	dir := ui.settings.GetLastSource()
	if dir == "" {
		var err error
		if dir, err = platform.GetHomePicturesDir(); err != nil {
			return
		}
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	if lister, err := storage.ListerForURI(storage.NewFileURI(dir)); err == nil {
		d.SetLocation(lister)
	}
}

func (ui *RootUI) loadAndReport(path string) {
	if err := ui.LoadSource(path); err != nil {
		slog.Error("Failed to load gallery source", "path", path, "error", err)
		dialog.ShowError(fmt.Errorf("%s: %w", ui.localization.GetText(KeyErrorLoadingImage), err), ui.window)
	}
}

// onLanguageChange handles language change
func (ui *RootUI) onLanguageChange(langCode string) {
	ui.localization.SetLanguage(langCode)
	ui.settings.SetLanguage(langCode)
	ui.refreshUITexts()
	ui.createMenu()
}

// refreshUITexts updates all UI texts with current language
func (ui *RootUI) refreshUITexts() {
	ui.window.SetTitle(ui.localization.GetText(KeyAppTitle))
	ui.openDirBtn.SetText(IconFolder + " " + ui.localization.GetText(KeyOpenFolder))
	ui.openManBtn.SetText(IconFile + " " + ui.localization.GetText(KeyOpenManifest))
	ui.rebuildGallery()
}

// onShowSettings shows the settings dialog
func (ui *RootUI) onShowSettings() {
	NewSettingsDialog(ui.settings, ui.localization, ui.window, func() {
		ui.localization.SetLanguage(ui.settings.GetLanguage())
		ui.refreshUITexts()
		ui.createMenu()
	}).Show()
}
