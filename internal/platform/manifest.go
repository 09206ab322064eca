package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ytget/photo-gallery/internal/model"
)

// ImageExtensions lists the file types picked up by ScanDirectory
var ImageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp", ".tif", ".tiff"}

// Manifest is a YAML description of a gallery.
//
//	title: Holidays
//	columns: 3
//	images:
//	  - id: beach
//	    uri: https://example.com/beach.jpg
//	    thumbnail: https://example.com/beach_t.jpg
//	    title: Beach
type Manifest struct {
	Title   string                  `yaml:"title,omitempty"`
	Columns int                     `yaml:"columns,omitempty"`
	Images  []model.ImageDescriptor `yaml:"images"`
}

// LoadManifest reads a manifest file. Relative paths are resolved against the
// manifest's directory and missing ids are derived from the image URI.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	base, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to resolve manifest dir: %w", err)
	}
	for i := range m.Images {
		img := &m.Images[i]
		img.FullURI = resolveURI(base, img.FullURI)
		img.ThumbnailURI = resolveURI(base, img.ThumbnailURI)
		if img.ID == "" {
			img.ID = ImageID(img.FullSource())
		}
	}

	if err := model.ValidateImages(m.Images); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}
	return &m, nil
}

// ScanDirectory lists the images directly inside dir, sorted by file name.
func ScanDirectory(dir string) ([]model.ImageDescriptor, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", abs, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !IsImageFile(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	images := make([]model.ImageDescriptor, 0, len(names))
	for _, name := range names {
		uri := FileURI(filepath.Join(abs, name))
		images = append(images, model.ImageDescriptor{
			ID:      ImageID(uri),
			FullURI: uri,
			Title:   strings.TrimSuffix(name, filepath.Ext(name)),
		})
	}
	return images, nil
}

// ImageID derives a stable id from an image URI
func ImageID(uri string) string {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(uri)).String()
}

// IsImageFile reports whether name has a supported image extension
func IsImageFile(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range ImageExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

func resolveURI(base, uri string) string {
	if uri == "" || strings.Contains(uri, "://") {
		return uri
	}
	if !filepath.IsAbs(uri) {
		uri = filepath.Join(base, uri)
	}
	return FileURI(uri)
}
