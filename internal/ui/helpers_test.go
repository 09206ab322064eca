package ui

import (
	"context"
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"github.com/ytget/photo-gallery/internal/model"
)

var errUnreachable = errors.New("host unreachable")

// fakeSource serves 1x1 images instantly. URIs in fail return errUnreachable.
// When gate is set every Load waits for it to be closed.
type fakeSource struct {
	mu    sync.Mutex
	sizes map[string]model.NaturalSize
	fail  map[string]bool
	gate  chan struct{}
	loads map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		sizes: make(map[string]model.NaturalSize),
		fail:  make(map[string]bool),
		loads: make(map[string]int),
	}
}

func (f *fakeSource) NaturalSize(ctx context.Context, uri string) (model.NaturalSize, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail[uri] {
		return model.NaturalSize{}, errUnreachable
	}
	if size, ok := f.sizes[uri]; ok {
		return size, nil
	}
	return model.NaturalSize{Width: 800, Height: 600}, nil
}

func (f *fakeSource) Load(ctx context.Context, uri string) (image.Image, error) {
	f.mu.Lock()
	f.loads[uri]++
	gate := f.gate
	failed := f.fail[uri]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if failed {
		return nil, errUnreachable
	}
	return image.NewRGBA(image.Rect(0, 0, 1, 1)), nil
}

func (f *fakeSource) loadCount(uri string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads[uri]
}

func testImages() []model.ImageDescriptor {
	return []model.ImageDescriptor{
		{ID: "a", FullURI: "https://photos.example/a.jpg", Title: "Alps"},
		{ID: "b", FullURI: "https://photos.example/b.jpg", Title: "Beach", Description: "Low tide"},
		{ID: "c", FullURI: "https://photos.example/c.jpg"},
	}
}

// waitFor polls cond until it holds or the deadline passes
func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for !cond() {
		if time.Now().After(deadline) {
			t.Fatalf("Timed out waiting for %s", what)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

// waitClosed waits until ch is closed
func waitClosed(t *testing.T, what string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("Timed out waiting for %s", what)
	}
}
