package platform

import (
	"context"
	"image"

	"github.com/ytget/photo-gallery/internal/model"
)

// ImageSource loads images and probes their intrinsic size by URI.
type ImageSource interface {
	// NaturalSize returns the pixel size without decoding the whole image.
	NaturalSize(ctx context.Context, uri string) (model.NaturalSize, error)

	// Load decodes the image at uri.
	Load(ctx context.Context, uri string) (image.Image, error)
}
