package model

import (
	"fmt"
	"strings"
)

// ImageDescriptor describes one image of a gallery. Identity is ID; order in
// the backing slice defines grid order.
type ImageDescriptor struct {
	ID           string `yaml:"id" json:"id"`
	FullURI      string `yaml:"uri" json:"uri"`
	ThumbnailURI string `yaml:"thumbnail" json:"thumbnail"`
	Title        string `yaml:"title,omitempty" json:"title,omitempty"`
	Description  string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ThumbnailSource returns the URI used for the grid tile, falling back to the
// full image when no thumbnail is set.
func (d ImageDescriptor) ThumbnailSource() string {
	if d.ThumbnailURI != "" {
		return d.ThumbnailURI
	}
	return d.FullURI
}

// FullSource returns the URI of the full-resolution asset, falling back to the
// thumbnail when no full URI is set.
func (d ImageDescriptor) FullSource() string {
	if d.FullURI != "" {
		return d.FullURI
	}
	return d.ThumbnailURI
}

// DisplayTitle returns the title, or the ID when the title is empty
func (d ImageDescriptor) DisplayTitle() string {
	if t := strings.TrimSpace(d.Title); t != "" {
		return t
	}
	return d.ID
}

// IndexOf returns the position of id in images, or -1.
func IndexOf(images []ImageDescriptor, id string) int {
	for i := range images {
		if images[i].ID == id {
			return i
		}
	}
	return -1
}

// ValidateImages checks that every descriptor has a non-empty, unique ID and
// at least one URI.
func ValidateImages(images []ImageDescriptor) error {
	seen := make(map[string]int, len(images))
	for i, img := range images {
		if img.ID == "" {
			return fmt.Errorf("image %d: empty id", i)
		}
		if prev, dup := seen[img.ID]; dup {
			return fmt.Errorf("image %d: duplicate id %q (first at %d)", i, img.ID, prev)
		}
		if img.FullURI == "" && img.ThumbnailURI == "" {
			return fmt.Errorf("image %q: no uri", img.ID)
		}
		seen[img.ID] = i
	}
	return nil
}

// BoundingBox is a rectangle relative to the whole-screen (window canvas)
// origin.
type BoundingBox struct {
	X      float32
	Y      float32
	Width  float32
	Height float32
}

// IsEmpty reports whether the box has no area
func (b BoundingBox) IsEmpty() bool {
	return b.Width <= 0 || b.Height <= 0
}

// NaturalSize is the intrinsic pixel size of an image asset.
type NaturalSize struct {
	Width  float32
	Height float32
}

// IsValid reports whether both dimensions are positive.
func (s NaturalSize) IsValid() bool {
	return s.Width > 0 && s.Height > 0
}

// AspectRatio returns width/height, or 0 for an invalid size.
func (s NaturalSize) AspectRatio() float32 {
	if !s.IsValid() {
		return 0
	}
	return s.Width / s.Height
}

// FitInto returns the largest box with the size's aspect ratio centered in
// the given area. Invalid sizes fill the area.
func (s NaturalSize) FitInto(area BoundingBox) BoundingBox {
	if !s.IsValid() || area.IsEmpty() {
		return area
	}
	scale := area.Width / s.Width
	if h := area.Height / s.Height; h < scale {
		scale = h
	}
	w, h := s.Width*scale, s.Height*scale
	return BoundingBox{
		X:      area.X + (area.Width-w)/2,
		Y:      area.Y + (area.Height-h)/2,
		Width:  w,
		Height: h,
	}
}
