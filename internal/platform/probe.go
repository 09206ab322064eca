package platform

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/ytget/photo-gallery/internal/model"
)

// HTTP probing defaults
const (
	DefaultHTTPTimeout = 30 * time.Second
	SchemeHTTP         = "http://"
	SchemeHTTPS        = "https://"
	SchemeFile         = "file://"

	// DefaultMaxPixels bounds the images Load is willing to decode
	DefaultMaxPixels = 64 << 20
)

// ErrImageTooLarge is returned by Load for images above the pixel limit.
var ErrImageTooLarge = errors.New("image exceeds decode pixel limit")

// Prober reads images from local paths, file:// URIs and http(s) URLs.
// Natural sizes are cached per URI after the first successful probe.
type Prober struct {
	HTTPClient *http.Client
	// MaxPixels caps width*height for Load; zero means DefaultMaxPixels.
	MaxPixels int

	sizes      map[string]model.NaturalSize
	sizesMutex sync.RWMutex
}

// NewProber creates a prober with a bounded HTTP client
func NewProber() *Prober {
	return &Prober{
		HTTPClient: &http.Client{
			Timeout: DefaultHTTPTimeout,
		},
		MaxPixels: DefaultMaxPixels,
		sizes:     make(map[string]model.NaturalSize),
	}
}

var _ ImageSource = (*Prober)(nil)

// NaturalSize reads only the image header to find its pixel size.
func (p *Prober) NaturalSize(ctx context.Context, uri string) (model.NaturalSize, error) {
	p.sizesMutex.RLock()
	size, ok := p.sizes[uri]
	p.sizesMutex.RUnlock()
	if ok {
		return size, nil
	}

	rc, err := p.open(ctx, uri)
	if err != nil {
		return model.NaturalSize{}, err
	}
	defer rc.Close()

	cfg, format, err := image.DecodeConfig(rc)
	if err != nil {
		return model.NaturalSize{}, fmt.Errorf("failed to decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return model.NaturalSize{}, fmt.Errorf("invalid %s image size %dx%d", format, cfg.Width, cfg.Height)
	}

	size = model.NaturalSize{Width: float32(cfg.Width), Height: float32(cfg.Height)}
	p.sizesMutex.Lock()
	p.sizes[uri] = size
	p.sizesMutex.Unlock()
	return size, nil
}

// Load decodes the full image. The natural size is cached as a side effect.
func (p *Prober) Load(ctx context.Context, uri string) (image.Image, error) {
	rc, err := p.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	// The header bytes are replayed in front of the rest of the stream.
	var header bytes.Buffer
	cfg, format, err := image.DecodeConfig(io.TeeReader(rc, &header))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image header: %w", err)
	}
	limit := p.MaxPixels
	if limit <= 0 {
		limit = DefaultMaxPixels
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return nil, fmt.Errorf("invalid %s image size %dx%d", format, cfg.Width, cfg.Height)
	}
	if int64(cfg.Width)*int64(cfg.Height) > int64(limit) {
		return nil, fmt.Errorf("%s image %dx%d: %w", format, cfg.Width, cfg.Height, ErrImageTooLarge)
	}

	img, _, err := image.Decode(io.MultiReader(&header, rc))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	p.sizesMutex.Lock()
	p.sizes[uri] = model.NaturalSize{Width: float32(b.Dx()), Height: float32(b.Dy())}
	p.sizesMutex.Unlock()
	return img, nil
}

// open returns a reader for uri
func (p *Prober) open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty image uri")
	}

	if strings.HasPrefix(uri, SchemeHTTP) || strings.HasPrefix(uri, SchemeHTTPS) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to build request: %w", err)
		}
		resp, err := p.HTTPClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch image: %w", err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("image URL returned status %d", resp.StatusCode)
		}
		return resp.Body, nil
	}

	path, err := LocalPath(uri)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	return f, nil
}
