package model

// GalleryPhase is the phase of the full-screen viewer.
type GalleryPhase string

const (
	// PhaseClosed means only the grid is shown
	PhaseClosed GalleryPhase = "Closed"

	// PhaseOpening means the viewer is mounted and running its entry animation
	PhaseOpening GalleryPhase = "Opening"

	// PhaseOpen means the viewer is mounted and idle
	PhaseOpen GalleryPhase = "Open"

	// PhaseClosing means the viewer is running its exit animation
	PhaseClosing GalleryPhase = "Closing"
)

// String returns the string representation of GalleryPhase
func (p GalleryPhase) String() string {
	return string(p)
}

// IsMounted returns true while the viewer overlay is on screen.
func (p GalleryPhase) IsMounted() bool {
	return p == PhaseOpening || p == PhaseOpen || p == PhaseClosing
}

// GalleryState is the single source of truth for which image is active.
type GalleryState struct {
	Phase         GalleryPhase
	ActiveImageID string // empty when Closed
}

// IsSuppressed reports whether the grid cell for id must be hidden.
func (s GalleryState) IsSuppressed(id string) bool {
	return s.Phase.IsMounted() && s.ActiveImageID != "" && s.ActiveImageID == id
}
