package ui

import (
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/test"

	"github.com/ytget/photo-gallery/internal/gallery"
)

func newTestCell(registry *gallery.Registry, source *fakeSource) *ImageCell {
	return NewImageCell(CellOptions{
		Registry:  registry,
		Source:    source,
		TopMargin: 24,
	})
}

func TestImageCellBindRegistersMeasurer(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	images := testImages()
	c := newTestCell(registry, newFakeSource())

	c.Bind(images[0], false, "")
	first := registry.Lookup("a")
	if first == nil {
		t.Fatal("Expected a measurer for a after Bind")
	}
	if c.ImageID() != "a" {
		t.Errorf("Expected cell bound to a, got %q", c.ImageID())
	}

	c.Bind(images[1], false, "")
	if registry.Lookup("a") != nil {
		t.Error("Rebinding must unregister the previous id")
	}
	if registry.Lookup("b") == nil {
		t.Error("Expected a measurer for b after rebinding")
	}

	if _, err := first.MeasureNaturalSize(context.Background()); !errors.Is(err, gallery.ErrCellDetached) {
		t.Errorf("Expected ErrCellDetached from a stale handle, got %v", err)
	}
	if _, err := first.MeasureBoundingBox(context.Background()); !errors.Is(err, gallery.ErrCellDetached) {
		t.Errorf("Expected ErrCellDetached from a stale handle, got %v", err)
	}

	c.Detach()
	if registry.Len() != 0 {
		t.Errorf("Expected empty registry after Detach, got %d entries", registry.Len())
	}
	if c.ImageID() != "" {
		t.Errorf("Expected unbound cell, got %q", c.ImageID())
	}
}

func TestImageCellDetachKeepsNewerRegistration(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	images := testImages()

	old := newTestCell(registry, newFakeSource())
	old.Bind(images[0], false, "")
	fresh := newTestCell(registry, newFakeSource())
	fresh.Bind(images[0], false, "")

	old.Detach()
	if registry.Lookup("a") == nil {
		t.Error("Detaching a recycled cell must not remove the newer cell's measurer")
	}
}

func TestImageCellFadesInOnce(t *testing.T) {
	test.NewApp()
	source := newFakeSource()
	images := testImages()
	c := newTestCell(gallery.NewRegistry(), source)

	c.Bind(images[0], false, "")
	if c.Phase() != gallery.CellUnloaded {
		t.Errorf("Expected unloaded before the image arrives, got %s", c.Phase())
	}
	waitFor(t, "thumbnail load", c.Loaded)

	if c.Phase() != gallery.CellLoadedVisible {
		t.Errorf("Expected loaded-visible, got %s", c.Phase())
	}
	waitFor(t, "fade-in", func() bool { return c.displayedOpacity() == 1 })

	// Same image again is not a rebind
	c.Bind(images[0], false, "")
	c.Bind(images[0], false, "")

	c.mu.RLock()
	fadeIns := c.fadeIns
	c.mu.RUnlock()
	if fadeIns != 1 {
		t.Errorf("Expected exactly one fade-in, got %d", fadeIns)
	}
	if n := source.loadCount(images[0].ThumbnailSource()); n != 1 {
		t.Errorf("Expected one load, got %d", n)
	}
}

func TestImageCellSuppression(t *testing.T) {
	test.NewApp()
	images := testImages()
	c := newTestCell(gallery.NewRegistry(), newFakeSource())

	c.Bind(images[0], true, "")
	waitFor(t, "thumbnail load", c.Loaded)

	if c.Phase() != gallery.CellLoadedHidden {
		t.Errorf("Expected loaded-hidden, got %s", c.Phase())
	}
	if o := c.displayedOpacity(); o != 0 {
		t.Errorf("A suppressed cell must stay transparent, got opacity %v", o)
	}

	c.SetSuppressed(false)
	if o := c.displayedOpacity(); o != 1 {
		t.Errorf("Restoring must be immediate, got opacity %v", o)
	}

	c.SetSuppressed(true)
	if o := c.displayedOpacity(); o != 0 {
		t.Errorf("Suppressing must be immediate, got opacity %v", o)
	}

	c.mu.RLock()
	fadeIns := c.fadeIns
	c.mu.RUnlock()
	if fadeIns != 0 {
		t.Errorf("A cell loaded while suppressed must not fade in, got %d fade-ins", fadeIns)
	}
}

func TestImageCellIgnoresTapsUntilLoaded(t *testing.T) {
	test.NewApp()
	source := newFakeSource()
	source.gate = make(chan struct{})
	images := testImages()

	var taps, longPresses []string
	c := NewImageCell(CellOptions{
		Registry:    gallery.NewRegistry(),
		Source:      source,
		OnTap:       func(id string) { taps = append(taps, id) },
		OnLongPress: func(id string) { longPresses = append(longPresses, id) },
	})

	c.Bind(images[1], false, "")
	c.Tapped(&fyne.PointEvent{})
	c.TappedSecondary(&fyne.PointEvent{})
	if len(taps) != 0 || len(longPresses) != 0 {
		t.Fatalf("Expected no callbacks before load, got taps %v and long presses %v", taps, longPresses)
	}

	close(source.gate)
	waitFor(t, "thumbnail load", c.Loaded)

	c.Tapped(&fyne.PointEvent{})
	c.TappedSecondary(&fyne.PointEvent{})
	if len(taps) != 1 || taps[0] != "b" {
		t.Errorf("Expected one tap on b, got %v", taps)
	}
	if len(longPresses) != 1 || longPresses[0] != "b" {
		t.Errorf("Expected one long press on b, got %v", longPresses)
	}
}

func TestImageCellStaleLoadIsDropped(t *testing.T) {
	test.NewApp()
	source := newFakeSource()
	images := testImages()
	source.fail[images[1].ThumbnailSource()] = true
	source.gate = make(chan struct{})
	c := newTestCell(gallery.NewRegistry(), source)

	c.Bind(images[0], false, "")
	c.Bind(images[1], false, "")
	close(source.gate)

	waitFor(t, "both loads", func() bool {
		return source.loadCount(images[0].ThumbnailSource()) == 1 && source.loadCount(images[1].ThumbnailSource()) == 1
	})
	if c.Loaded() {
		t.Error("The load of a previous binding must not mark the cell loaded")
	}
}

func TestCellMeasurerSizeFetchError(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	source := newFakeSource()
	images := testImages()
	source.fail[images[0].FullSource()] = true

	broken := newTestCell(registry, source)
	broken.Bind(images[0], false, "")
	sibling := newTestCell(registry, source)
	sibling.Bind(images[1], false, "")
	waitFor(t, "sibling load", sibling.Loaded)

	_, err := registry.Lookup("a").MeasureNaturalSize(context.Background())
	if !errors.Is(err, gallery.ErrNaturalSizeFetch) {
		t.Fatalf("Expected ErrNaturalSizeFetch, got %v", err)
	}
	var fetchErr *gallery.SizeFetchError
	if !errors.As(err, &fetchErr) || fetchErr.ID != "a" {
		t.Errorf("Expected a SizeFetchError for a, got %v", err)
	}
	if !errors.Is(err, errUnreachable) {
		t.Errorf("Expected the probe error to be wrapped, got %v", err)
	}

	size, err := registry.Lookup("b").MeasureNaturalSize(context.Background())
	if err != nil || size.Width != 800 || size.Height != 600 {
		t.Errorf("Sibling measurement = %+v, %v; expected 800x600", size, err)
	}
	if !sibling.Loaded() {
		t.Error("A failed probe must not affect other cells")
	}
}

func TestCellMeasurerBoundingBox(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	c := newTestCell(registry, newFakeSource())
	c.Bind(testImages()[0], false, "")

	w := test.NewWindow(c)
	defer w.Close()
	w.Resize(fyne.NewSize(200, 200))
	c.Resize(fyne.NewSize(120, 120))

	box, err := registry.Lookup("a").MeasureBoundingBox(context.Background())
	if err != nil {
		t.Fatalf("MeasureBoundingBox: %v", err)
	}
	if box.Width != 120 || box.Height != 120 {
		t.Errorf("Expected a 120x120 box, got %+v", box)
	}
	pos := fyne.CurrentApp().Driver().AbsolutePositionForObject(c)
	if box.Y != pos.Y+24 || box.X != pos.X {
		t.Errorf("Expected box at (%v, %v), got (%v, %v)", pos.X, pos.Y+24, box.X, box.Y)
	}
}

func TestImageCellSelectionBadge(t *testing.T) {
	test.NewApp()
	images := testImages()
	c := newTestCell(gallery.NewRegistry(), newFakeSource())

	c.Bind(images[2], false, "c")
	if !c.Selected() {
		t.Error("Expected the badge on the selected image")
	}

	c.SetSelectedImageID("a")
	if c.Selected() {
		t.Error("Expected no badge once another image is selected")
	}

	c.mu.RLock()
	before := c.refreshes
	c.mu.RUnlock()
	c.SetSelectedImageID("a")
	c.SetSelectedImageID("a")
	c.mu.RLock()
	after := c.refreshes
	c.mu.RUnlock()
	if after != before {
		t.Errorf("Unchanged props must not refresh, refreshed %d times", after-before)
	}
}

func TestCellMeasurerRebindWhileQueued(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	images := testImages()
	c := newTestCell(registry, newFakeSource())
	c.Bind(images[0], false, "")

	handle, ok := registry.Lookup("a").(*cellMeasurer)
	if !ok {
		t.Fatal("Expected the cell's own measurer")
	}
	if _, _, bound := handle.geometry(); !bound {
		t.Fatal("Expected the handle to read geometry while bound")
	}

	// The row is recycled between the binding check and the UI read
	c.Bind(images[1], false, "")
	if _, _, bound := handle.geometry(); bound {
		t.Error("Expected no geometry from a handle whose cell now shows another image")
	}
}

func TestCellMeasurerWithoutSource(t *testing.T) {
	test.NewApp()
	registry := gallery.NewRegistry()
	c := NewImageCell(CellOptions{Registry: registry})
	c.Bind(testImages()[0], false, "")

	_, err := registry.Lookup("a").MeasureNaturalSize(context.Background())
	if !errors.Is(err, gallery.ErrNaturalSizeFetch) || !errors.Is(err, ErrNoImageSource) {
		t.Errorf("Expected a size fetch error caused by ErrNoImageSource, got %v", err)
	}
	if errors.Is(err, gallery.ErrMissingMeasurer) {
		t.Errorf("A registered cell must not report a missing measurer, got %v", err)
	}
}

// opaqueImage hides SubImage so cropSquare has to copy pixels
type opaqueImage struct{ image.Image }

func TestCropSquare(t *testing.T) {
	wide := image.NewRGBA(image.Rect(0, 0, 40, 20))
	wide.Set(20, 10, color.RGBA{R: 255, A: 255})
	tall := image.NewRGBA(image.Rect(0, 0, 20, 40))
	square := image.NewRGBA(image.Rect(0, 0, 16, 16))

	tests := []struct {
		name string
		in   image.Image
		want image.Rectangle
	}{
		{"wide", wide, image.Rect(10, 0, 30, 20)},
		{"tall", tall, image.Rect(0, 10, 20, 30)},
		{"square is kept", square, image.Rect(0, 0, 16, 16)},
		{"without SubImage", opaqueImage{wide}, image.Rect(0, 0, 20, 20)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := cropSquare(tt.in).Bounds(); got != tt.want {
				t.Errorf("cropSquare() bounds = %v, expected %v", got, tt.want)
			}
		})
	}

	copied := cropSquare(opaqueImage{wide})
	if r, _, _, _ := copied.At(10, 10).RGBA(); r == 0 {
		t.Error("Expected the centre pixel to survive the copy")
	}
}

func TestImageCellShowsSquareThumbnail(t *testing.T) {
	test.NewApp()
	c := NewImageCell(CellOptions{
		Registry: gallery.NewRegistry(),
		Source:   &wideSource{fakeSource: newFakeSource()},
	})
	c.Bind(testImages()[0], false, "")
	waitFor(t, "thumbnail load", c.Loaded)

	c.mu.RLock()
	b := c.image.Image.Bounds()
	mode := c.image.FillMode
	c.mu.RUnlock()
	if b.Dx() != b.Dy() {
		t.Errorf("Expected a square thumbnail, got %v", b)
	}
	if mode != canvas.ImageFillStretch {
		t.Errorf("Expected the cropped thumbnail to be stretched over the cell, got mode %v", mode)
	}
}

// wideSource serves 30x10 thumbnails
type wideSource struct {
	*fakeSource
}

func (w *wideSource) Load(ctx context.Context, uri string) (image.Image, error) {
	if _, err := w.fakeSource.Load(ctx, uri); err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, 30, 10)), nil
}
