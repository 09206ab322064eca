package platform

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestProber_NaturalSizeFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	if err := os.WriteFile(path, encodePNG(t, 64, 32), 0644); err != nil {
		t.Fatal(err)
	}

	p := NewProber()
	for _, uri := range []string{path, FileURI(path)} {
		size, err := p.NaturalSize(context.Background(), uri)
		if err != nil {
			t.Fatalf("NaturalSize(%q): %v", uri, err)
		}
		if size.Width != 64 || size.Height != 32 {
			t.Errorf("NaturalSize(%q) = %+v, expected 64x32", uri, size)
		}
	}
}

func TestProber_NaturalSizeFromHTTPIsCached(t *testing.T) {
	body := encodePNG(t, 10, 20)
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Content-Type", "image/png")
		w.Write(body)
	}))
	defer srv.Close()

	p := NewProber()
	for i := 0; i < 2; i++ {
		size, err := p.NaturalSize(context.Background(), srv.URL+"/a.png")
		if err != nil {
			t.Fatalf("NaturalSize: %v", err)
		}
		if size.Width != 10 || size.Height != 20 {
			t.Errorf("Unexpected size %+v", size)
		}
	}
	if n := atomic.LoadInt32(&hits); n != 1 {
		t.Errorf("Expected 1 request thanks to cache, got %d", n)
	}
}

func TestProber_HTTPErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	_, err := NewProber().NaturalSize(context.Background(), srv.URL+"/missing.png")
	if err == nil {
		t.Fatal("Expected error for 404")
	}
}

func TestProber_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL + "/a.png"
	srv.Close()

	if _, err := NewProber().NaturalSize(context.Background(), url); err == nil {
		t.Fatal("Expected error for unreachable host")
	}
}

func TestProber_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	os.WriteFile(path, encodePNG(t, 4, 4), 0644)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewProber().NaturalSize(ctx, path)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestProber_NotAnImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	os.WriteFile(path, []byte("definitely not a png"), 0644)

	if _, err := NewProber().NaturalSize(context.Background(), path); err == nil {
		t.Fatal("Expected decode error")
	}
}

func TestProber_Load(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.png")
	os.WriteFile(path, encodePNG(t, 8, 6), 0644)

	p := NewProber()
	img, err := p.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8 || b.Dy() != 6 {
		t.Errorf("Unexpected bounds %v", b)
	}

	// Removing the file proves the size comes from the cache.
	os.Remove(path)
	size, err := p.NaturalSize(context.Background(), path)
	if err != nil || size.Width != 8 {
		t.Errorf("Expected cached size after Load, got %+v (%v)", size, err)
	}
}

func TestProber_LoadRejectsOversizedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "huge.png")
	os.WriteFile(path, encodePNG(t, 40, 30), 0644)

	p := NewProber()
	p.MaxPixels = 1000

	if _, err := p.Load(context.Background(), path); !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("Expected ErrImageTooLarge, got %v", err)
	}

	// The header is still readable for layout purposes
	size, err := p.NaturalSize(context.Background(), path)
	if err != nil || size.Width != 40 || size.Height != 30 {
		t.Errorf("Expected 40x30 natural size, got %+v (%v)", size, err)
	}

	p.MaxPixels = 1200
	img, err := p.Load(context.Background(), path)
	if err != nil {
		t.Fatalf("Load at the limit: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("Unexpected bounds %v", b)
	}
}
