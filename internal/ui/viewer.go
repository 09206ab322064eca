package ui

import (
	"context"
	"fmt"
	"image/color"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/ytget/photo-gallery/internal/gallery"
	"github.com/ytget/photo-gallery/internal/model"
	"github.com/ytget/photo-gallery/internal/platform"
)

// OverlayProps is everything the gallery hands to the full-screen viewer.
type OverlayProps struct {
	Images  []model.ImageDescriptor
	ImageID string

	// OnClose asks the gallery to close the viewer. The gallery answers by
	// calling Dismiss.
	OnClose func()
	// OnChangePhoto reports the image the user swiped to.
	OnChangePhoto func(id string)
	// GetMeasurer returns the measurer of the cell showing id, or nil.
	GetMeasurer func(id string) gallery.Measurer

	CloseText            string
	InfoTitleStyle       fyne.TextStyle
	InfoDescriptionStyle fyne.TextStyle
	EnableTilt           bool
}

// Overlay is the full-screen viewer mounted while the gallery is open.
type Overlay interface {
	// Mount adds the overlay to c and runs the entry transition. entered is
	// called once the transition completes.
	Mount(c fyne.Canvas, entered func())
	// Dismiss runs the exit transition, unmounts the overlay and calls done.
	Dismiss(done func())
}

// OverlayFactory builds an overlay for one viewer session
type OverlayFactory func(props OverlayProps) Overlay

type viewerState int

const (
	viewerIdle viewerState = iota
	viewerEntering
	viewerShown
	viewerExiting
	viewerRemoved
)

// Viewer is the default Overlay: a pager over the gallery images that grows
// out of the tapped cell and shrinks back into the active one on close.
// When no cell geometry is available it fades instead.
type Viewer struct {
	widget.BaseWidget

	props    OverlayProps
	source   platform.ImageSource
	gestures *GestureHandler

	canvas        fyne.Canvas
	prevOnKey     func(*fyne.KeyEvent)
	state         viewerState
	index         int
	natural       model.NaturalSize
	imageRect     model.BoundingBox
	anim          *fyne.Animation
	backdropAnim  *fyne.Animation
	loadSeq       uint64
	sharedElement bool

	backdrop    *canvas.Rectangle
	image       *canvas.Image
	closeBtn    *widget.Button
	prevBtn     *widget.Button
	nextBtn     *widget.Button
	title       *widget.Label
	description *widget.Label
	position    *widget.Label
	captions    *fyne.Container
}

var (
	_ Overlay     = (*Viewer)(nil)
	_ fyne.Widget = (*Viewer)(nil)
)

// NewViewer creates a viewer for props. source loads the full images and
// may be nil, in which case only captions are shown.
func NewViewer(props OverlayProps, source platform.ImageSource) *Viewer {
	v := &Viewer{
		props:  props,
		source: source,
		index:  model.IndexOf(props.Images, props.ImageID),
	}
	if v.index < 0 {
		v.index = 0
	}
	v.gestures = NewGestureHandler(v.onGesture)

	closeText := props.CloseText
	if closeText == "" {
		closeText = NewLocalization().GetText(KeyClose)
	}

	v.backdrop = canvas.NewRectangle(color.NRGBA{A: 0})
	v.image = &canvas.Image{FillMode: canvas.ImageFillContain}
	v.closeBtn = widget.NewButton(closeText, v.requestClose)
	v.closeBtn.Importance = widget.LowImportance
	v.prevBtn = widget.NewButton(IconPrev, v.Prev)
	v.prevBtn.Importance = widget.LowImportance
	v.nextBtn = widget.NewButton(IconNext, v.Next)
	v.nextBtn.Importance = widget.LowImportance

	v.title = widget.NewLabel("")
	v.title.TextStyle = props.InfoTitleStyle
	v.title.Truncation = fyne.TextTruncateEllipsis
	v.description = widget.NewLabel("")
	v.description.TextStyle = props.InfoDescriptionStyle
	v.description.Wrapping = fyne.TextWrapWord
	v.position = widget.NewLabel("")
	v.position.Alignment = fyne.TextAlignTrailing
	v.captions = container.NewVBox(
		container.NewBorder(nil, nil, nil, v.position, v.title),
		v.description,
	)

	v.setChromeVisible(false)
	v.updateCaptions()
	v.ExtendBaseWidget(v)
	return v
}

// ImageID returns the id currently shown
func (v *Viewer) ImageID() string {
	if v.index < 0 || v.index >= len(v.props.Images) {
		return v.props.ImageID
	}
	return v.props.Images[v.index].ID
}

// Mount implements Overlay
func (v *Viewer) Mount(c fyne.Canvas, entered func()) {
	if v.state != viewerIdle {
		return
	}
	v.canvas = c
	v.state = viewerEntering
	v.prevOnKey = c.OnTypedKey()
	c.SetOnTypedKey(v.typedKey)
	v.setOpacity(0)
	c.Overlays().Add(v)
	v.Resize(c.Size())
	v.loadCurrent()

	v.resolveAnchor(func(anchor gallery.Anchor) {
		if v.state != viewerEntering {
			return
		}
		if anchor.HasSize {
			v.natural = anchor.Size
		}
		target := v.restingRect()
		v.sharedElement = anchor.SharedElement()
		finish := func() {
			if v.state != viewerEntering {
				return
			}
			v.state = viewerShown
			v.setImageRect(v.restingRect())
			v.setChromeVisible(true)
			if entered != nil {
				entered()
			}
		}

		if v.sharedElement {
			v.image.Translucency = 0
			v.setImageRect(anchor.Box)
			v.startBackdrop(0, 1)
			v.startAnim(newRectAnimation(anchor.Box, target, ViewerTransitionDuration, v.setImageRect, finish))
			return
		}
		v.setImageRect(target)
		v.startAnim(newOpacityAnimation(0, 1, ViewerTransitionDuration, v.setOpacity, finish))
	})
}

// Dismiss implements Overlay. The exit transition returns to the cell of the
// image shown at the time of the call.
func (v *Viewer) Dismiss(done func()) {
	if v.state == viewerIdle || v.state == viewerExiting || v.state == viewerRemoved {
		if done != nil {
			done()
		}
		return
	}
	v.state = viewerExiting
	v.stopAnims()
	v.setChromeVisible(false)

	v.resolveAnchor(func(anchor gallery.Anchor) {
		if v.state != viewerExiting {
			return
		}
		finish := func() {
			v.remove()
			if done != nil {
				done()
			}
		}

		if anchor.SharedElement() {
			v.startBackdrop(1, 0)
			v.startAnim(newRectAnimation(v.imageRect, anchor.Box, ViewerTransitionDuration, v.setImageRect, finish))
			return
		}
		v.startAnim(newOpacityAnimation(1, 0, ViewerTransitionDuration, v.setOpacity, finish))
	})
}

// Next shows the following image
func (v *Viewer) Next() {
	v.step(1)
}

// Prev shows the preceding image
func (v *Viewer) Prev() {
	v.step(-1)
}

func (v *Viewer) step(delta int) {
	if v.state != viewerShown {
		return
	}
	next := v.index + delta
	if next < 0 || next >= len(v.props.Images) {
		return
	}
	v.index = next
	v.natural = model.NaturalSize{}
	v.updateCaptions()
	v.loadCurrent()
	v.setImageRect(v.restingRect())

	if v.props.OnChangePhoto != nil {
		v.props.OnChangePhoto(v.ImageID())
	}
}

func (v *Viewer) requestClose() {
	if v.state != viewerEntering && v.state != viewerShown {
		return
	}
	if v.props.OnClose != nil {
		v.props.OnClose()
		return
	}
	v.Dismiss(nil)
}

func (v *Viewer) onGesture(g GestureType) {
	switch {
	case g == GestureSwipeLeft:
		v.Next()
	case g == GestureSwipeRight:
		v.Prev()
	case g.IsVertical() && v.props.EnableTilt:
		v.requestClose()
	}
}

func (v *Viewer) typedKey(ev *fyne.KeyEvent) {
	switch ev.Name {
	case fyne.KeyRight:
		v.Next()
	case fyne.KeyLeft:
		v.Prev()
	case fyne.KeyEscape:
		v.requestClose()
	}
}

// Dragged implements fyne.Draggable
func (v *Viewer) Dragged(ev *fyne.DragEvent) {
	v.gestures.Dragged(ev)
}

// DragEnd implements fyne.Draggable
func (v *Viewer) DragEnd() {
	v.gestures.DragEnd()
}

// Tapped swallows taps so they do not reach the grid underneath
func (v *Viewer) Tapped(_ *fyne.PointEvent) {
}

// resolveAnchor measures the active cell off the UI goroutine and hands the
// result back on it.
func (v *Viewer) resolveAnchor(apply func(gallery.Anchor)) {
	lookup := v.props.GetMeasurer
	if lookup == nil {
		lookup = func(string) gallery.Measurer { return nil }
	}
	id := v.ImageID()

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), MeasureTimeout)
		defer cancel()
		anchor := gallery.ResolveAnchor(ctx, lookup, id)
		fyne.Do(func() { apply(anchor) })
	}()
}

// loadCurrent fetches the full image for the current index
func (v *Viewer) loadCurrent() {
	v.loadSeq++
	v.image.Image = nil
	canvas.Refresh(v.image)
	if v.source == nil || len(v.props.Images) == 0 {
		return
	}

	seq := v.loadSeq
	desc := v.props.Images[v.index]
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), ThumbnailLoadTimeout)
		defer cancel()
		img, err := v.source.Load(ctx, desc.FullSource())
		fyne.Do(func() {
			if seq != v.loadSeq || v.state == viewerRemoved {
				return
			}
			if err != nil {
				slog.Warn("Failed to load image", "id", desc.ID, "uri", desc.FullSource(), "error", err)
				return
			}
			v.image.Image = img
			b := img.Bounds()
			v.natural = model.NaturalSize{Width: float32(b.Dx()), Height: float32(b.Dy())}
			if v.state == viewerShown {
				v.setImageRect(v.restingRect())
			}
			canvas.Refresh(v.image)
		})
	}()
}

func (v *Viewer) updateCaptions() {
	if len(v.props.Images) == 0 {
		return
	}
	desc := v.props.Images[v.index]
	v.title.SetText(desc.DisplayTitle())
	v.description.SetText(desc.Description)
	if desc.Description == "" {
		v.description.Hide()
	} else {
		v.description.Show()
	}
	v.position.SetText(fmt.Sprintf(PositionFormat, v.index+1, len(v.props.Images)))
	v.prevBtn.Disable()
	v.nextBtn.Disable()
	if v.index > 0 {
		v.prevBtn.Enable()
	}
	if v.index < len(v.props.Images)-1 {
		v.nextBtn.Enable()
	}
}

// restingRect is where the image sits while the viewer is shown
func (v *Viewer) restingRect() model.BoundingBox {
	size := v.Size()
	top := ViewerPadding + v.closeBtn.MinSize().Height
	bottom := ViewerPadding + v.captions.MinSize().Height
	area := model.BoundingBox{
		X:      ViewerPadding,
		Y:      top,
		Width:  size.Width - 2*ViewerPadding,
		Height: size.Height - top - bottom,
	}
	if area.Width < 0 {
		area.Width = 0
	}
	if area.Height < 0 {
		area.Height = 0
	}
	if v.natural.IsValid() {
		return v.natural.FitInto(area)
	}
	return area
}

func (v *Viewer) setImageRect(b model.BoundingBox) {
	v.imageRect = b
	v.image.Move(fyne.NewPos(b.X, b.Y))
	v.image.Resize(fyne.NewSize(b.Width, b.Height))
	canvas.Refresh(v.image)
}

func (v *Viewer) setOpacity(o float32) {
	v.image.Translucency = translucency(o)
	v.setBackdrop(o)
	canvas.Refresh(v.image)
}

func (v *Viewer) setBackdrop(o float32) {
	if o < 0 {
		o = 0
	}
	if o > 1 {
		o = 1
	}
	v.backdrop.FillColor = color.NRGBA{A: uint8(o * float32(ViewerBackdropAlpha))}
	canvas.Refresh(v.backdrop)
}

func (v *Viewer) setChromeVisible(visible bool) {
	for _, o := range []fyne.CanvasObject{v.closeBtn, v.prevBtn, v.nextBtn, v.captions} {
		if visible {
			o.Show()
		} else {
			o.Hide()
		}
	}
}

func (v *Viewer) startAnim(a *fyne.Animation) {
	if v.anim != nil {
		v.anim.Stop()
	}
	v.anim = a
	a.Start()
}

func (v *Viewer) startBackdrop(from, to float32) {
	if v.backdropAnim != nil {
		v.backdropAnim.Stop()
	}
	v.backdropAnim = newOpacityAnimation(from, to, ViewerTransitionDuration, v.setBackdrop, nil)
	v.backdropAnim.Start()
}

func (v *Viewer) stopAnims() {
	if v.anim != nil {
		v.anim.Stop()
		v.anim = nil
	}
	if v.backdropAnim != nil {
		v.backdropAnim.Stop()
		v.backdropAnim = nil
	}
}

func (v *Viewer) remove() {
	if v.state == viewerRemoved {
		return
	}
	v.state = viewerRemoved
	v.stopAnims()
	v.loadSeq++
	if v.canvas != nil {
		v.canvas.Overlays().Remove(v)
		v.canvas.SetOnTypedKey(v.prevOnKey)
	}
}

// CreateRenderer implements fyne.Widget
func (v *Viewer) CreateRenderer() fyne.WidgetRenderer {
	return &viewerRenderer{
		viewer: v,
		objects: []fyne.CanvasObject{
			v.backdrop, v.image, v.captions, v.prevBtn, v.nextBtn, v.closeBtn,
		},
	}
}

type viewerRenderer struct {
	viewer  *Viewer
	objects []fyne.CanvasObject
}

func (r *viewerRenderer) Layout(size fyne.Size) {
	v := r.viewer
	v.backdrop.Move(fyne.NewPos(0, 0))
	v.backdrop.Resize(size)

	closeMin := v.closeBtn.MinSize()
	v.closeBtn.Resize(closeMin)
	v.closeBtn.Move(fyne.NewPos(size.Width-ViewerPadding-closeMin.Width, ViewerPadding))

	captionsMin := v.captions.MinSize()
	v.captions.Resize(fyne.NewSize(size.Width-2*ViewerPadding, captionsMin.Height))
	v.captions.Move(fyne.NewPos(ViewerPadding, size.Height-ViewerPadding-captionsMin.Height))

	navMin := v.prevBtn.MinSize()
	midY := (size.Height - navMin.Height) / 2
	v.prevBtn.Resize(navMin)
	v.prevBtn.Move(fyne.NewPos(ViewerPadding, midY))
	v.nextBtn.Resize(v.nextBtn.MinSize())
	v.nextBtn.Move(fyne.NewPos(size.Width-ViewerPadding-v.nextBtn.MinSize().Width, midY))

	if v.state == viewerShown {
		v.setImageRect(v.restingRect())
	}
}

func (r *viewerRenderer) MinSize() fyne.Size {
	return fyne.NewSize(0, 0)
}

func (r *viewerRenderer) Refresh() {
	r.Layout(r.viewer.Size())
	canvas.Refresh(r.viewer.backdrop)
	canvas.Refresh(r.viewer.image)
}

func (r *viewerRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

func (r *viewerRenderer) Destroy() {
}
