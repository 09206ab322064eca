package gallery

import (
	"context"
	"log/slog"
	"sync"

	"github.com/ytget/photo-gallery/internal/model"
)

// Measurer reports the geometry of one rendered cell. Both methods may block
// and must be called off the UI goroutine.
type Measurer interface {
	// MeasureBoundingBox returns the cell's box relative to the screen origin.
	MeasureBoundingBox(ctx context.Context) (model.BoundingBox, error)

	// MeasureNaturalSize returns the intrinsic size of the full image.
	MeasureNaturalSize(ctx context.Context) (model.NaturalSize, error)
}

// MeasurerFuncs adapts two functions to the Measurer interface.
type MeasurerFuncs struct {
	BoundingBox func(ctx context.Context) (model.BoundingBox, error)
	NaturalSize func(ctx context.Context) (model.NaturalSize, error)
}

// MeasureBoundingBox calls f.BoundingBox.
func (f MeasurerFuncs) MeasureBoundingBox(ctx context.Context) (model.BoundingBox, error) {
	if f.BoundingBox == nil {
		return model.BoundingBox{}, ErrMissingMeasurer
	}
	return f.BoundingBox(ctx)
}

// MeasureNaturalSize calls f.NaturalSize.
func (f MeasurerFuncs) MeasureNaturalSize(ctx context.Context) (model.NaturalSize, error) {
	if f.NaturalSize == nil {
		return model.NaturalSize{}, ErrMissingMeasurer
	}
	return f.NaturalSize(ctx)
}

// Anchor is the measured starting point of a viewer transition.
type Anchor struct {
	ImageID string
	Box     model.BoundingBox
	Size    model.NaturalSize
	HasBox  bool
	HasSize bool
}

// SharedElement reports whether the viewer can grow the image out of its grid
// cell. Without it the viewer fades in instead.
func (a Anchor) SharedElement() bool {
	return a.HasBox && !a.Box.IsEmpty()
}

// ResolveAnchor measures the cell registered for id. Box and size are probed
// concurrently; each failure only clears its own half of the anchor. A
// missing measurer yields an empty anchor and no error is surfaced.
func ResolveAnchor(ctx context.Context, lookup func(id string) Measurer, id string) Anchor {
	anchor := Anchor{ImageID: id}

	m := lookup(id)
	if m == nil {
		slog.Debug("No measurer for image, using fallback transition", "id", id)
		return anchor
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		box, err := m.MeasureBoundingBox(ctx)
		if err != nil {
			slog.Warn("Bounding box measurement failed", "id", id, "error", err)
			return
		}
		anchor.Box, anchor.HasBox = box, true
	}()
	go func() {
		defer wg.Done()
		size, err := m.MeasureNaturalSize(ctx)
		if err != nil {
			// Already logged where the probe failed.
			return
		}
		anchor.Size, anchor.HasSize = size, size.IsValid()
	}()
	wg.Wait()

	return anchor
}
