package gallery

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/ytget/photo-gallery/internal/model"
)

// StateListener is notified after every state change with the previous and
// the new state.
type StateListener func(prev, next model.GalleryState)

// Orchestrator owns the GalleryState and is the only place it changes.
//
//	Closed --Open--> Opening --EntryFinished--> Open
//	Opening|Open --ChangePhoto--> same phase, new active id
//	Opening|Open --RequestClose--> Closing
//	Opening|Open|Closing --Close--> Closed
type Orchestrator struct {
	mu         sync.RWMutex
	state      model.GalleryState
	generation uint64
	contains   func(id string) bool
	listeners  []StateListener

	onPressImage     func(id string)
	onLongPressImage func(id string)
}

// NewOrchestrator creates a closed orchestrator. contains reports whether an
// id belongs to the current image sequence; nil accepts every id.
func NewOrchestrator(contains func(id string) bool) *Orchestrator {
	if contains == nil {
		contains = func(string) bool { return true }
	}
	return &Orchestrator{
		state:    model.GalleryState{Phase: model.PhaseClosed},
		contains: contains,
	}
}

// SetCallbacks sets the optional host notifications. Nil callbacks are no-ops.
func (o *Orchestrator) SetCallbacks(onPressImage, onLongPressImage func(id string)) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.onPressImage = onPressImage
	o.onLongPressImage = onLongPressImage
}

// OnStateChange registers a listener. Listeners run on the caller's goroutine
// after the lock is released.
func (o *Orchestrator) OnStateChange(l StateListener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns a snapshot of the current state
func (o *Orchestrator) State() model.GalleryState {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.state
}

// Generation identifies the current viewer session. It changes on every Open.
func (o *Orchestrator) Generation() uint64 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.generation
}

// IsCurrent reports whether an async continuation started in session gen may
// still apply its result.
func (o *Orchestrator) IsCurrent(gen uint64) bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return gen == o.generation && o.state.Phase.IsMounted()
}

// IsSuppressed reports whether the grid must hide the cell for id.
func (o *Orchestrator) IsSuppressed(id string) bool {
	return o.State().IsSuppressed(id)
}

// Open mounts the viewer on id and notifies onPressImage.
func (o *Orchestrator) Open(id string) error {
	if !o.contains(id) {
		return fmt.Errorf("open %q: %w", id, ErrUnknownImage)
	}

	o.mu.Lock()
	if o.state.Phase != model.PhaseClosed {
		phase := o.state.Phase
		o.mu.Unlock()
		return fmt.Errorf("open %q while %s: %w", id, phase, ErrInvalidTransition)
	}
	prev := o.state
	o.generation++
	o.state = model.GalleryState{Phase: model.PhaseOpening, ActiveImageID: id}
	next, listeners, onPress := o.state, o.snapshotListeners(), o.onPressImage
	o.mu.Unlock()

	slog.Debug("Image viewer opening", "id", id)
	notify(listeners, prev, next)
	if onPress != nil {
		onPress(id)
	}
	return nil
}

// EntryFinished moves an Opening session to Open. Stale sessions are ignored.
func (o *Orchestrator) EntryFinished(gen uint64) {
	o.transition(func(s model.GalleryState) (model.GalleryState, bool) {
		if gen != o.generation || s.Phase != model.PhaseOpening {
			return s, false
		}
		s.Phase = model.PhaseOpen
		return s, true
	})
}

// ChangePhoto makes id the active image while the viewer is shown, so that
// the grid hides the new cell and restores the previous one.
func (o *Orchestrator) ChangePhoto(id string) error {
	if !o.contains(id) {
		return fmt.Errorf("change photo to %q: %w", id, ErrUnknownImage)
	}

	var phase model.GalleryPhase
	ok := o.transition(func(s model.GalleryState) (model.GalleryState, bool) {
		phase = s.Phase
		if s.Phase != model.PhaseOpening && s.Phase != model.PhaseOpen {
			return s, false
		}
		if s.ActiveImageID == id {
			return s, false
		}
		s.ActiveImageID = id
		return s, true
	})
	if !ok && phase != model.PhaseOpening && phase != model.PhaseOpen {
		return fmt.Errorf("change photo to %q while %s: %w", id, phase, ErrInvalidTransition)
	}
	return nil
}

// RequestClose starts the exit transition. The active id is kept so the cell
// stays hidden until Close.
func (o *Orchestrator) RequestClose() error {
	var phase model.GalleryPhase
	ok := o.transition(func(s model.GalleryState) (model.GalleryState, bool) {
		phase = s.Phase
		if s.Phase != model.PhaseOpening && s.Phase != model.PhaseOpen {
			return s, false
		}
		s.Phase = model.PhaseClosing
		return s, true
	})
	if !ok {
		return fmt.Errorf("request close while %s: %w", phase, ErrInvalidTransition)
	}
	return nil
}

// Close unmounts the viewer and clears the active id. Closing a closed
// orchestrator is a no-op.
func (o *Orchestrator) Close() {
	o.transition(func(s model.GalleryState) (model.GalleryState, bool) {
		if s.Phase == model.PhaseClosed {
			return s, false
		}
		return model.GalleryState{Phase: model.PhaseClosed}, true
	})
}

// LongPress forwards a long press to the host without changing the phase.
func (o *Orchestrator) LongPress(id string) {
	o.mu.RLock()
	cb := o.onLongPressImage
	o.mu.RUnlock()
	if cb != nil {
		cb(id)
	}
}

// transition applies fn under the lock and notifies listeners if it changed
// the state.
func (o *Orchestrator) transition(fn func(model.GalleryState) (model.GalleryState, bool)) bool {
	o.mu.Lock()
	prev := o.state
	next, changed := fn(prev)
	if !changed {
		o.mu.Unlock()
		return false
	}
	o.state = next
	listeners := o.snapshotListeners()
	o.mu.Unlock()

	slog.Debug("Gallery state changed", "from", prev.Phase, "to", next.Phase, "active", next.ActiveImageID)
	notify(listeners, prev, next)
	return true
}

func (o *Orchestrator) snapshotListeners() []StateListener {
	out := make([]StateListener, len(o.listeners))
	copy(out, o.listeners)
	return out
}

func notify(listeners []StateListener, prev, next model.GalleryState) {
	for _, l := range listeners {
		l(prev, next)
	}
}
