package gallery

import (
	"errors"
	"testing"

	"github.com/ytget/photo-gallery/internal/model"
)

func containsOf(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

// suppressedOf returns the ids hidden in the grid for the current state.
func suppressedOf(o *Orchestrator, ids ...string) []string {
	var out []string
	for _, id := range ids {
		if o.IsSuppressed(id) {
			out = append(out, id)
		}
	}
	return out
}

func TestOrchestrator_InitialState(t *testing.T) {
	o := NewOrchestrator(nil)
	s := o.State()
	if s.Phase != model.PhaseClosed || s.ActiveImageID != "" {
		t.Errorf("Expected closed state, got %+v", s)
	}
}

func TestOrchestrator_OpenSwipeClose(t *testing.T) {
	ids := []string{"a", "b"}
	o := NewOrchestrator(containsOf(ids...))

	var pressed []string
	o.SetCallbacks(func(id string) { pressed = append(pressed, id) }, nil)

	if err := o.Open("a"); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if s := o.State(); !s.Phase.IsMounted() || s.ActiveImageID != "a" {
		t.Errorf("Expected mounted on a, got %+v", s)
	}
	if got := suppressedOf(o, ids...); len(got) != 1 || got[0] != "a" {
		t.Errorf("Expected only a suppressed, got %v", got)
	}
	if len(pressed) != 1 || pressed[0] != "a" {
		t.Errorf("Expected onPressImage(a), got %v", pressed)
	}

	o.EntryFinished(o.Generation())
	if o.State().Phase != model.PhaseOpen {
		t.Errorf("Expected Open after entry, got %s", o.State().Phase)
	}

	if err := o.ChangePhoto("b"); err != nil {
		t.Fatalf("ChangePhoto: %v", err)
	}
	if got := suppressedOf(o, ids...); len(got) != 1 || got[0] != "b" {
		t.Errorf("Expected only b suppressed, got %v", got)
	}

	o.Close()
	if s := o.State(); s.Phase != model.PhaseClosed || s.ActiveImageID != "" {
		t.Errorf("Expected closed and cleared, got %+v", s)
	}
	if got := suppressedOf(o, ids...); len(got) != 0 {
		t.Errorf("Expected no suppression after close, got %v", got)
	}
}

func TestOrchestrator_ExactlyOneSuppressedWhileMounted(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}
	sequences := [][2]string{{"a", "b"}, {"b", "a"}, {"c", "c"}, {"d", "a"}}

	for _, seq := range sequences {
		o := NewOrchestrator(containsOf(ids...))
		o.OnStateChange(func(prev, next model.GalleryState) {
			got := 0
			for _, id := range ids {
				if next.IsSuppressed(id) {
					got++
				}
			}
			if next.Phase.IsMounted() && got != 1 {
				t.Errorf("%v: %d cells suppressed in %s", seq, got, next.Phase)
			}
			if !next.Phase.IsMounted() && got != 0 {
				t.Errorf("%v: %d cells suppressed while closed", seq, got)
			}
		})

		if err := o.Open(seq[0]); err != nil {
			t.Fatal(err)
		}
		if err := o.ChangePhoto(seq[1]); err != nil {
			t.Fatal(err)
		}
		if err := o.RequestClose(); err != nil {
			t.Fatal(err)
		}
		if !o.IsSuppressed(seq[1]) {
			t.Errorf("%v: cell must stay hidden during exit transition", seq)
		}
		o.Close()
	}
}

func TestOrchestrator_UnknownImage(t *testing.T) {
	o := NewOrchestrator(containsOf("a"))
	called := false
	o.SetCallbacks(func(string) { called = true }, nil)

	err := o.Open("ghost")
	if !errors.Is(err, ErrUnknownImage) {
		t.Errorf("Expected ErrUnknownImage, got %v", err)
	}
	if o.State().Phase != model.PhaseClosed {
		t.Error("Phase must not change on rejected open")
	}
	if called {
		t.Error("onPressImage must not fire on rejected open")
	}

	_ = o.Open("a")
	if err := o.ChangePhoto("ghost"); !errors.Is(err, ErrUnknownImage) {
		t.Errorf("Expected ErrUnknownImage from ChangePhoto, got %v", err)
	}
	if o.State().ActiveImageID != "a" {
		t.Error("Active id must not change on rejected swipe")
	}
}

func TestOrchestrator_InvalidTransitions(t *testing.T) {
	o := NewOrchestrator(nil)

	if err := o.ChangePhoto("a"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ChangePhoto while closed: %v", err)
	}
	if err := o.RequestClose(); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("RequestClose while closed: %v", err)
	}

	_ = o.Open("a")
	if err := o.Open("b"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("Open while open: %v", err)
	}
	_ = o.RequestClose()
	if err := o.ChangePhoto("b"); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("ChangePhoto while closing: %v", err)
	}

	o.Close()
	o.Close() // no-op
	if o.State().Phase != model.PhaseClosed {
		t.Error("Expected closed")
	}
}

func TestOrchestrator_StaleGeneration(t *testing.T) {
	o := NewOrchestrator(nil)
	_ = o.Open("a")
	gen := o.Generation()
	if !o.IsCurrent(gen) {
		t.Fatal("Expected fresh session to be current")
	}

	o.Close()
	if o.IsCurrent(gen) {
		t.Error("Closed session must not be current")
	}

	_ = o.Open("a")
	o.EntryFinished(gen)
	if o.State().Phase != model.PhaseOpening {
		t.Error("EntryFinished from an old session must be ignored")
	}
	if o.IsCurrent(gen) {
		t.Error("Old generation must not be current after reopen")
	}
}

func TestOrchestrator_LongPress(t *testing.T) {
	o := NewOrchestrator(nil)
	o.LongPress("a") // nil callback is a no-op

	var got string
	o.SetCallbacks(nil, func(id string) { got = id })
	o.LongPress("b")

	if got != "b" {
		t.Errorf("Expected onLongPressImage(b), got %q", got)
	}
	if o.State().Phase != model.PhaseClosed {
		t.Error("Long press must not change the phase")
	}
}

func TestOrchestrator_ListenerSeesTransitions(t *testing.T) {
	o := NewOrchestrator(nil)
	var phases []model.GalleryPhase
	o.OnStateChange(func(prev, next model.GalleryState) {
		phases = append(phases, next.Phase)
	})

	_ = o.Open("a")
	o.EntryFinished(o.Generation())
	_ = o.ChangePhoto("a") // same id, no change
	_ = o.RequestClose()
	o.Close()

	want := []model.GalleryPhase{model.PhaseOpening, model.PhaseOpen, model.PhaseClosing, model.PhaseClosed}
	if len(phases) != len(want) {
		t.Fatalf("Expected %v, got %v", want, phases)
	}
	for i := range want {
		if phases[i] != want[i] {
			t.Errorf("transition %d: got %s, expected %s", i, phases[i], want[i])
		}
	}
}
