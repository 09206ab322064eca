package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/photo-gallery/internal/gallery"
	"github.com/ytget/photo-gallery/internal/model"
	"github.com/ytget/photo-gallery/internal/platform"
)

var (
	// ErrNotShown is returned when the viewer is opened before the gallery
	// is placed in a window.
	ErrNotShown = errors.New("gallery is not shown in a window")

	// ErrNoImageSource is the cause of size probes on a cell built without
	// an image source.
	ErrNoImageSource = errors.New("no image source configured")
)

// GalleryOptions configures a Gallery. Only Images is required.
type GalleryOptions struct {
	Images          []model.ImageDescriptor
	NumColumns      int
	TopMargin       float32
	SelectedImageID string

	CloseText            string
	InfoTitleStyle       fyne.TextStyle
	InfoDescriptionStyle fyne.TextStyle
	EnableTilt           bool

	OnPressImage     func(id string)
	OnLongPressImage func(id string)

	// Source loads thumbnails and probes natural sizes.
	Source platform.ImageSource
	// FadeDuration of the thumbnail fade-in; defaults to 300ms.
	FadeDuration time.Duration
	Localization *Localization
	// NewOverlay replaces the default Viewer.
	NewOverlay OverlayFactory
}

// Gallery is a thumbnail grid that opens a full-screen viewer on tap. It owns
// the measurement registry and the transition state machine for one set of
// images.
type Gallery struct {
	widget.BaseWidget

	opts         GalleryOptions
	registry     *gallery.Registry
	orchestrator *gallery.Orchestrator
	grid         *Grid

	mu      sync.RWMutex
	images  []model.ImageDescriptor
	overlay Overlay
}

// NewGallery creates a gallery for opts.Images
func NewGallery(opts GalleryOptions) *Gallery {
	if opts.Localization == nil {
		opts.Localization = NewLocalization()
	}
	if opts.CloseText == "" {
		opts.CloseText = opts.Localization.GetText(KeyClose)
	}

	g := &Gallery{
		opts:     opts,
		registry: gallery.NewRegistry(),
		images:   append([]model.ImageDescriptor(nil), opts.Images...),
	}
	g.orchestrator = gallery.NewOrchestrator(g.contains)
	g.orchestrator.SetCallbacks(opts.OnPressImage, opts.OnLongPressImage)

	g.grid = NewGrid(opts.NumColumns, g.newCell, g.orchestrator.IsSuppressed)
	g.grid.SetImages(g.images)
	g.grid.SetSelectedImageID(opts.SelectedImageID)

	g.orchestrator.OnStateChange(func(_, _ model.GalleryState) {
		g.grid.RefreshSuppression()
	})

	g.ExtendBaseWidget(g)
	return g
}

func (g *Gallery) newCell() *ImageCell {
	return NewImageCell(CellOptions{
		Registry:     g.registry,
		Source:       g.opts.Source,
		TopMargin:    g.opts.TopMargin,
		FadeDuration: g.opts.FadeDuration,
		Localization: g.opts.Localization,
		OnTap: func(id string) {
			_ = g.OpenImageViewer(id)
		},
		OnLongPress: g.orchestrator.LongPress,
	})
}

func (g *Gallery) contains(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return model.IndexOf(g.images, id) >= 0
}

// Registry returns the measurement registry shared by the cells
func (g *Gallery) Registry() *gallery.Registry {
	return g.registry
}

// Orchestrator returns the transition state machine
func (g *Gallery) Orchestrator() *gallery.Orchestrator {
	return g.orchestrator
}

// Grid returns the thumbnail grid
func (g *Gallery) Grid() *Grid {
	return g.grid
}

// State returns the current gallery state
func (g *Gallery) State() model.GalleryState {
	return g.orchestrator.State()
}

// OpenImageViewer suppresses the cell for id and mounts the viewer on top of
// the window holding the gallery.
func (g *Gallery) OpenImageViewer(id string) error {
	c := g.shownCanvas()
	if c == nil {
		return ErrNotShown
	}

	if err := g.orchestrator.Open(id); err != nil {
		slog.Warn("Cannot open image viewer", "id", id, "error", err)
		return err
	}
	gen := g.orchestrator.Generation()

	ov := g.overlayFactory()(g.overlayProps(id))
	g.mu.Lock()
	g.overlay = ov
	g.mu.Unlock()

	ov.Mount(c, func() {
		g.orchestrator.EntryFinished(gen)
	})
	return nil
}

// shownCanvas returns the canvas the gallery is laid out on, or nil when it
// has not been given an area yet.
func (g *Gallery) shownCanvas() fyne.Canvas {
	size := g.Size()
	if !g.Visible() || size.Width <= 0 || size.Height <= 0 {
		return nil
	}
	return fyne.CurrentApp().Driver().CanvasForObject(g)
}

// CloseImageViewer starts the exit transition. The cell stays hidden until
// the overlay reports it has been removed.
func (g *Gallery) CloseImageViewer() {
	if err := g.orchestrator.RequestClose(); err != nil {
		slog.Debug("Ignoring close request", "error", err)
		return
	}
	gen := g.orchestrator.Generation()

	g.mu.Lock()
	ov := g.overlay
	g.mu.Unlock()
	if ov == nil {
		g.orchestrator.Close()
		return
	}

	ov.Dismiss(func() {
		g.mu.Lock()
		if g.overlay == ov {
			g.overlay = nil
		}
		g.mu.Unlock()
		if g.orchestrator.IsCurrent(gen) {
			g.orchestrator.Close()
		}
	})
}

// OnChangePhoto moves the active image while the viewer is shown.
func (g *Gallery) OnChangePhoto(id string) error {
	if err := g.orchestrator.ChangePhoto(id); err != nil {
		slog.Warn("Cannot change photo", "id", id, "error", err)
		return err
	}
	g.grid.ScrollToImage(id)
	return nil
}

// SetImages replaces the images. An open viewer whose image is gone is
// closed.
func (g *Gallery) SetImages(images []model.ImageDescriptor) error {
	if err := model.ValidateImages(images); err != nil {
		return fmt.Errorf("invalid images: %w", err)
	}

	g.mu.Lock()
	g.images = append([]model.ImageDescriptor(nil), images...)
	g.mu.Unlock()
	g.grid.SetImages(images)

	state := g.orchestrator.State()
	if state.Phase.IsMounted() && !g.contains(state.ActiveImageID) {
		g.CloseImageViewer()
	}
	return nil
}

// SetSelectedImageID moves the selection badge
func (g *Gallery) SetSelectedImageID(id string) {
	g.grid.SetSelectedImageID(id)
}

// SetColumns changes the grid column count
func (g *Gallery) SetColumns(columns int) {
	g.grid.SetColumns(columns)
}

// Dispose closes the viewer without animation and unregisters every cell.
func (g *Gallery) Dispose() {
	g.mu.Lock()
	ov := g.overlay
	g.overlay = nil
	g.mu.Unlock()

	if v, ok := ov.(*Viewer); ok {
		v.remove()
	}
	g.orchestrator.Close()
	g.grid.DetachAll()
}

func (g *Gallery) overlayFactory() OverlayFactory {
	if g.opts.NewOverlay != nil {
		return g.opts.NewOverlay
	}
	return func(props OverlayProps) Overlay {
		return NewViewer(props, g.opts.Source)
	}
}

func (g *Gallery) overlayProps(id string) OverlayProps {
	g.mu.RLock()
	images := append([]model.ImageDescriptor(nil), g.images...)
	g.mu.RUnlock()

	return OverlayProps{
		Images:  images,
		ImageID: id,
		OnClose: g.CloseImageViewer,
		OnChangePhoto: func(id string) {
			_ = g.OnChangePhoto(id)
		},
		GetMeasurer:          g.registry.Lookup,
		CloseText:            g.opts.CloseText,
		InfoTitleStyle:       g.opts.InfoTitleStyle,
		InfoDescriptionStyle: g.opts.InfoDescriptionStyle,
		EnableTilt:           g.opts.EnableTilt,
	}
}

// CreateRenderer implements fyne.Widget
func (g *Gallery) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(g.grid)
}
