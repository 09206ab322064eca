package ui

import (
	"time"

	"fyne.io/fyne/v2"
)

// GestureType represents different types of gestures
type GestureType int

const (
	GestureNone GestureType = iota
	GestureTap
	GestureSwipeLeft
	GestureSwipeRight
	GestureSwipeUp
	GestureSwipeDown
	GestureLongPress
)

func (g GestureType) String() string {
	switch g {
	case GestureTap:
		return "tap"
	case GestureSwipeLeft:
		return "swipe-left"
	case GestureSwipeRight:
		return "swipe-right"
	case GestureSwipeUp:
		return "swipe-up"
	case GestureSwipeDown:
		return "swipe-down"
	case GestureLongPress:
		return "long-press"
	default:
		return "none"
	}
}

// IsHorizontal reports whether g is a left or right swipe
func (g GestureType) IsHorizontal() bool {
	return g == GestureSwipeLeft || g == GestureSwipeRight
}

// IsVertical reports whether g is an up or down swipe
func (g GestureType) IsVertical() bool {
	return g == GestureSwipeUp || g == GestureSwipeDown
}

// GestureHandler turns drags into swipe gestures.
// It is driven from the UI goroutine only.
type GestureHandler struct {
	onGesture func(GestureType)

	// Drag tracking
	dragging  bool
	dragStart time.Time
	dragDelta fyne.Delta

	// Gesture thresholds
	swipeThreshold    float32
	longPressDuration time.Duration
}

// Gesture thresholds constants
const (
	DefaultSwipeThreshold    float32 = 50.0
	DefaultLongPressDuration         = 500 * time.Millisecond
)

// NewGestureHandler creates a new gesture handler
func NewGestureHandler(onGesture func(GestureType)) *GestureHandler {
	return &GestureHandler{
		onGesture:         onGesture,
		swipeThreshold:    DefaultSwipeThreshold,
		longPressDuration: DefaultLongPressDuration,
	}
}

// Classify maps a pointer movement and its duration to a gesture.
func (gh *GestureHandler) Classify(dx, dy float32, duration time.Duration) GestureType {
	distanceSq := dx*dx + dy*dy
	thresholdSq := gh.swipeThreshold * gh.swipeThreshold

	switch {
	case distanceSq >= thresholdSq:
		return swipeDirection(dx, dy)
	case duration >= gh.longPressDuration:
		return GestureLongPress
	default:
		return GestureTap
	}
}

// Dragged accumulates a desktop drag
func (gh *GestureHandler) Dragged(event *fyne.DragEvent) {
	if !gh.dragging {
		gh.dragging = true
		gh.dragStart = time.Now()
		gh.dragDelta = fyne.Delta{}
	}
	gh.dragDelta.DX += event.Dragged.DX
	gh.dragDelta.DY += event.Dragged.DY
}

// DragEnd classifies the finished drag. Drags shorter than the swipe
// threshold are dropped; taps arrive through Tapped instead.
func (gh *GestureHandler) DragEnd() {
	if !gh.dragging {
		return
	}
	gh.dragging = false
	gesture := gh.Classify(gh.dragDelta.DX, gh.dragDelta.DY, time.Since(gh.dragStart))
	if gesture.IsHorizontal() || gesture.IsVertical() {
		gh.triggerGesture(gesture)
	}
}

// swipeDirection determines the direction of a swipe gesture
func swipeDirection(dx, dy float32) GestureType {
	absDx := dx
	if absDx < 0 {
		absDx = -absDx
	}
	absDy := dy
	if absDy < 0 {
		absDy = -absDy
	}

	if absDx > absDy {
		if dx > 0 {
			return GestureSwipeRight
		}
		return GestureSwipeLeft
	}
	if dy > 0 {
		return GestureSwipeDown
	}
	return GestureSwipeUp
}

// triggerGesture triggers a gesture callback
func (gh *GestureHandler) triggerGesture(gesture GestureType) {
	if gesture != GestureNone && gh.onGesture != nil {
		gh.onGesture(gesture)
	}
}
