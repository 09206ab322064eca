package gallery

import (
	"context"
	"testing"

	"github.com/ytget/photo-gallery/internal/model"
)

type fakeMeasurer struct {
	name string
	box  model.BoundingBox
	size model.NaturalSize
	err  error
}

func (f *fakeMeasurer) MeasureBoundingBox(ctx context.Context) (model.BoundingBox, error) {
	return f.box, f.err
}

func (f *fakeMeasurer) MeasureNaturalSize(ctx context.Context) (model.NaturalSize, error) {
	return f.size, f.err
}

func TestRegistry_LookupUnknown(t *testing.T) {
	r := NewRegistry()
	if m := r.Lookup("missing"); m != nil {
		t.Errorf("Expected nil measurer for unregistered id, got %v", m)
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := NewRegistry()
	first := &fakeMeasurer{name: "first"}
	second := &fakeMeasurer{name: "second"}

	r.Register("x", first)
	r.Register("x", second)

	got, ok := r.Lookup("x").(*fakeMeasurer)
	if !ok || got.name != "second" {
		t.Errorf("Expected second measurer, got %v", r.Lookup("x"))
	}
	if r.Len() != 1 {
		t.Errorf("Expected 1 entry, got %d", r.Len())
	}
}

func TestRegistry_UnregisterOwnEntry(t *testing.T) {
	r := NewRegistry()
	reg := r.Register("x", &fakeMeasurer{})

	if reg.ID() != "x" {
		t.Errorf("Expected registration id x, got %s", reg.ID())
	}
	if !r.Unregister(reg) {
		t.Fatal("Expected Unregister to remove own entry")
	}
	if r.Lookup("x") != nil {
		t.Error("Expected entry to be gone")
	}
	if r.Unregister(reg) {
		t.Error("Expected second Unregister to report false")
	}
}

func TestRegistry_UnregisterDoesNotEvictNewerHandle(t *testing.T) {
	r := NewRegistry()
	old := r.Register("x", &fakeMeasurer{name: "old"})
	r.Register("x", &fakeMeasurer{name: "new"})

	if r.Unregister(old) {
		t.Error("Stale registration must not evict the newer handle")
	}
	got, ok := r.Lookup("x").(*fakeMeasurer)
	if !ok || got.name != "new" {
		t.Errorf("Expected new measurer to survive, got %v", r.Lookup("x"))
	}
}

func TestRegistry_FuncMeasurer(t *testing.T) {
	r := NewRegistry()
	r.Register("f", MeasurerFuncs{
		BoundingBox: func(ctx context.Context) (model.BoundingBox, error) {
			return model.BoundingBox{Width: 10, Height: 10}, nil
		},
	})

	m := r.Lookup("f")
	box, err := m.MeasureBoundingBox(context.Background())
	if err != nil || box.Width != 10 {
		t.Errorf("Expected 10 wide box, got %+v (%v)", box, err)
	}
	if _, err := m.MeasureNaturalSize(context.Background()); err != ErrMissingMeasurer {
		t.Errorf("Expected ErrMissingMeasurer for nil func, got %v", err)
	}
}
