package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"
	xdraw "golang.org/x/image/draw"

	"github.com/ytget/photo-gallery/internal/gallery"
	"github.com/ytget/photo-gallery/internal/model"
	"github.com/ytget/photo-gallery/internal/platform"
)

// CellOptions configures an ImageCell
type CellOptions struct {
	Registry     *gallery.Registry
	Source       platform.ImageSource
	TopMargin    float32
	FadeDuration time.Duration
	Localization *Localization

	OnTap       func(id string)
	OnLongPress func(id string)
}

// ImageCell is one grid tile. It shows a thumbnail, fades it in once loaded,
// hides it while the viewer shows the same image, and registers a measurer
// for its current image so the viewer can grow out of it.
type ImageCell struct {
	widget.BaseWidget

	registry     *gallery.Registry
	source       platform.ImageSource
	topMargin    float32
	localization *Localization
	onTap        func(id string)
	onLongPress  func(id string)

	mu         sync.RWMutex
	desc       model.ImageDescriptor
	bound      bool
	binding    uint64
	reg        gallery.Registration
	laidOut    bool
	state      *gallery.CellState
	props      gallery.CellProps
	cancelLoad context.CancelFunc
	refreshes  int
	fadeIns    int

	placeholder *canvas.Rectangle
	image       *canvas.Image
	badge       *widget.Label
	fade        *fyne.Animation
}

// NewImageCell creates an unbound cell
func NewImageCell(opts CellOptions) *ImageCell {
	loc := opts.Localization
	if loc == nil {
		loc = NewLocalization()
	}
	registry := opts.Registry
	if registry == nil {
		registry = gallery.NewRegistry()
	}

	c := &ImageCell{
		registry:     registry,
		source:       opts.Source,
		topMargin:    opts.TopMargin,
		localization: loc,
		onTap:        opts.OnTap,
		onLongPress:  opts.OnLongPress,
		state:        gallery.NewCellState(opts.FadeDuration),
	}

	c.placeholder = canvas.NewRectangle(color.NRGBA{R: 0x80, G: 0x80, B: 0x80, A: CellPlaceholderAlpha})
	c.image = &canvas.Image{FillMode: canvas.ImageFillStretch, Translucency: 1}
	c.badge = widget.NewLabel(loc.GetText(KeySelected))
	c.badge.TextStyle = fyne.TextStyle{Bold: true}
	c.badge.Importance = widget.HighImportance
	c.badge.Hide()

	c.ExtendBaseWidget(c)
	return c
}

// Bind shows desc in this cell. Binding a different id unregisters the
// previous measurer, registers a new one and starts loading the thumbnail.
// Must be called on the UI goroutine.
func (c *ImageCell) Bind(desc model.ImageDescriptor, suppressed bool, selectedImageID string) {
	c.mu.Lock()
	rebound := !c.bound || c.desc.ID != desc.ID || c.desc.ThumbnailSource() != desc.ThumbnailSource()
	if rebound {
		c.detachLocked()
		c.desc = desc
		c.bound = true
		c.binding++
		c.state.Reset()
		c.reg = c.registry.Register(desc.ID, &cellMeasurer{cell: c, binding: c.binding})
		c.image.Image = nil
		c.image.Translucency = translucency(0)
	} else {
		c.desc = desc
	}
	binding := c.binding
	req, hasReq := c.state.SetSuppressed(suppressed)
	c.mu.Unlock()

	if rebound {
		c.stopFade()
		canvas.Refresh(c.image)
		c.startLoad(desc, binding)
	} else if hasReq {
		c.applyOpacity(req)
	}
	c.syncProps(selectedImageID)
}

// Detach unregisters the cell's measurer and abandons any pending load.
// The cell keeps its widgets and can be bound again.
func (c *ImageCell) Detach() {
	c.mu.Lock()
	c.detachLocked()
	c.mu.Unlock()
	c.stopFade()
}

func (c *ImageCell) detachLocked() {
	if !c.bound {
		return
	}
	c.registry.Unregister(c.reg)
	if c.cancelLoad != nil {
		c.cancelLoad()
		c.cancelLoad = nil
	}
	c.bound = false
	c.binding++
}

// SetSuppressed hides or restores the thumbnail immediately.
func (c *ImageCell) SetSuppressed(suppressed bool) {
	c.mu.Lock()
	req, ok := c.state.SetSuppressed(suppressed)
	selected := c.props.SelectedImageID
	c.mu.Unlock()

	if ok {
		c.applyOpacity(req)
	}
	c.syncProps(selected)
}

// SetSelectedImageID updates the selection badge
func (c *ImageCell) SetSelectedImageID(id string) {
	c.syncProps(id)
}

// ImageID returns the id the cell is bound to, or "" when unbound
func (c *ImageCell) ImageID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.bound {
		return ""
	}
	return c.desc.ID
}

// Phase returns the cell's visual phase
func (c *ImageCell) Phase() gallery.CellPhase {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Phase()
}

// Loaded reports whether the thumbnail finished loading
func (c *ImageCell) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Loaded()
}

// Suppressed reports whether the cell is hidden for the viewer
func (c *ImageCell) Suppressed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Suppressed()
}

// Selected reports whether the selection badge is shown
func (c *ImageCell) Selected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.props.Selected()
}

// Tapped opens the viewer once the thumbnail is loaded
func (c *ImageCell) Tapped(_ *fyne.PointEvent) {
	if id, ok := c.interactiveID(); ok && c.onTap != nil {
		c.onTap(id)
	}
}

// TappedSecondary is a right click on desktop and a long press on mobile
func (c *ImageCell) TappedSecondary(_ *fyne.PointEvent) {
	if id, ok := c.interactiveID(); ok && c.onLongPress != nil {
		c.onLongPress(id)
	}
}

func (c *ImageCell) interactiveID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.desc.ID, c.bound && c.state.Loaded()
}

// Resize also re-checks the render props, since size is one of them
func (c *ImageCell) Resize(size fyne.Size) {
	c.BaseWidget.Resize(size)
	c.mu.RLock()
	selected := c.props.SelectedImageID
	c.mu.RUnlock()
	c.syncProps(selected)
}

// startLoad fetches the thumbnail off the UI goroutine
func (c *ImageCell) startLoad(desc model.ImageDescriptor, binding uint64) {
	if c.source == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ThumbnailLoadTimeout)
	c.mu.Lock()
	c.cancelLoad = cancel
	c.mu.Unlock()

	go func() {
		defer cancel()
		img, err := c.source.Load(ctx, desc.ThumbnailSource())
		if err != nil {
			if !errors.Is(ctx.Err(), context.Canceled) {
				slog.Warn("Failed to load thumbnail", "id", desc.ID, "uri", desc.ThumbnailSource(), "error", err)
			}
			return
		}
		fyne.Do(func() {
			c.mu.Lock()
			if binding != c.binding {
				c.mu.Unlock()
				return
			}
			c.cancelLoad = nil
			req, ok := c.state.MarkLoaded()
			if ok && req.Animate {
				c.fadeIns++
			}
			selected := c.props.SelectedImageID
			c.image.Image = cropSquare(img)
			c.mu.Unlock()

			if ok {
				c.applyOpacity(req)
			}
			c.syncProps(selected)
		})
	}()
}

// cropSquare cuts the centered square out of img. Stretched over a square
// cell it fills the cell without distortion.
func cropSquare(img image.Image) image.Image {
	b := img.Bounds()
	edge := min(b.Dx(), b.Dy())
	if edge <= 0 || b.Dx() == b.Dy() {
		return img
	}
	x := b.Min.X + (b.Dx()-edge)/2
	y := b.Min.Y + (b.Dy()-edge)/2
	r := image.Rect(x, y, x+edge, y+edge)

	if sub, ok := img.(interface {
		SubImage(image.Rectangle) image.Image
	}); ok {
		return sub.SubImage(r)
	}
	dst := image.NewRGBA(image.Rect(0, 0, edge, edge))
	xdraw.Copy(dst, image.Point{}, img, r, xdraw.Src, nil)
	return dst
}

// applyOpacity renders an opacity request from the cell state
func (c *ImageCell) applyOpacity(req gallery.OpacityRequest) {
	c.stopFade()
	if !req.Animate || req.Duration <= 0 {
		c.setOpacity(req.Opacity)
		return
	}

	anim := newOpacityAnimation(c.displayedOpacity(), req.Opacity, req.Duration, c.setOpacity, nil)
	c.mu.Lock()
	c.fade = anim
	c.mu.Unlock()
	anim.Start()
}

func (c *ImageCell) setOpacity(opacity float32) {
	c.mu.Lock()
	c.image.Translucency = translucency(opacity)
	c.mu.Unlock()
	canvas.Refresh(c.image)
}

// displayedOpacity returns the opacity the thumbnail is drawn with right now
func (c *ImageCell) displayedOpacity() float32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return float32(1 - c.image.Translucency)
}

func (c *ImageCell) stopFade() {
	c.mu.Lock()
	anim := c.fade
	c.fade = nil
	c.mu.Unlock()
	if anim != nil {
		anim.Stop()
	}
}

// syncProps refreshes the widget only when a render-relevant input changed.
func (c *ImageCell) syncProps(selectedImageID string) {
	size := c.Size()

	c.mu.Lock()
	next := gallery.CellProps{
		ImageID:         c.desc.ID,
		Suppressed:      c.state.Suppressed(),
		Loaded:          c.state.Loaded(),
		SelectedImageID: selectedImageID,
		Width:           size.Width,
		Height:          size.Height,
	}
	if !c.bound {
		next.ImageID = ""
	}
	changed := c.props.NeedsRefresh(next)
	if changed {
		c.props = next
		c.refreshes++
	}
	c.mu.Unlock()

	if changed {
		c.Refresh()
	}
}

// CreateRenderer implements fyne.Widget
func (c *ImageCell) CreateRenderer() fyne.WidgetRenderer {
	return &imageCellRenderer{
		cell:    c,
		objects: []fyne.CanvasObject{c.placeholder, c.image, c.badge},
	}
}

type imageCellRenderer struct {
	cell    *ImageCell
	objects []fyne.CanvasObject
}

func (r *imageCellRenderer) Layout(size fyne.Size) {
	c := r.cell
	c.placeholder.Resize(size)
	c.image.Move(fyne.NewPos(0, 0))
	c.image.Resize(size)

	badge := c.badge.MinSize()
	c.badge.Move(fyne.NewPos(CellBadgePadding, CellBadgePadding))
	c.badge.Resize(badge)

	if size.Width > 0 && size.Height > 0 {
		c.mu.Lock()
		c.laidOut = true
		c.mu.Unlock()
	}
}

func (r *imageCellRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *imageCellRenderer) Refresh() {
	c := r.cell
	if c.Selected() {
		c.badge.SetText(c.localization.GetText(KeySelected))
		c.badge.Show()
	} else {
		c.badge.Hide()
	}
	r.Layout(c.Size())
	canvas.Refresh(c.placeholder)
	canvas.Refresh(c.image)
}

func (r *imageCellRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *imageCellRenderer) Destroy() {
}

// cellMeasurer is the handle registered for one binding of a cell. Once the
// cell is rebound or detached the handle reports ErrCellDetached.
type cellMeasurer struct {
	cell    *ImageCell
	binding uint64
}

func (m *cellMeasurer) current() (model.ImageDescriptor, bool, bool) {
	c := m.cell
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.desc, c.bound && c.binding == m.binding, c.laidOut
}

// MeasureBoundingBox returns the cell's box on the canvas, shifted down by
// the configured top margin. Must not be called on the UI goroutine.
func (m *cellMeasurer) MeasureBoundingBox(ctx context.Context) (model.BoundingBox, error) {
	desc, ok, laidOut := m.current()
	if !ok {
		return model.BoundingBox{}, gallery.ErrCellDetached
	}
	if err := ctx.Err(); err != nil {
		return model.BoundingBox{}, err
	}
	if !laidOut {
		slog.Warn("Measuring cell before layout", "id", desc.ID, "error", gallery.ErrMeasurementNotReady)
	}

	var (
		pos   fyne.Position
		size  fyne.Size
		bound bool
	)
	fyne.DoAndWait(func() {
		pos, size, bound = m.geometry()
	})
	if !bound {
		return model.BoundingBox{}, gallery.ErrCellDetached
	}

	return model.BoundingBox{
		X:      pos.X,
		Y:      pos.Y + m.cell.topMargin,
		Width:  size.Width,
		Height: size.Height,
	}, nil
}

// geometry reads the cell's canvas position and size on the UI goroutine.
// The list may have rebound the row while the call was queued, so the
// binding is checked again here.
func (m *cellMeasurer) geometry() (fyne.Position, fyne.Size, bool) {
	if _, ok, _ := m.current(); !ok {
		return fyne.Position{}, fyne.Size{}, false
	}
	c := m.cell
	return fyne.CurrentApp().Driver().AbsolutePositionForObject(c), c.Size(), true
}

// MeasureNaturalSize probes the full image behind the cell.
func (m *cellMeasurer) MeasureNaturalSize(ctx context.Context) (model.NaturalSize, error) {
	desc, ok, _ := m.current()
	if !ok {
		return model.NaturalSize{}, gallery.ErrCellDetached
	}

	uri := desc.FullSource()
	if m.cell.source == nil {
		return model.NaturalSize{}, &gallery.SizeFetchError{ID: desc.ID, URI: uri, Err: ErrNoImageSource}
	}

	size, err := m.cell.source.NaturalSize(ctx, uri)
	if err != nil {
		slog.Error("Failed to fetch image size", "id", desc.ID, "uri", uri, "error", err)
		return model.NaturalSize{}, &gallery.SizeFetchError{ID: desc.ID, URI: uri, Err: err}
	}
	return size, nil
}
