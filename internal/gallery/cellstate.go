package gallery

import "time"

// DefaultFadeDuration is the length of the thumbnail fade-in.
const DefaultFadeDuration = 300 * time.Millisecond

// CellPhase is the visual phase of a grid cell.
type CellPhase int

const (
	CellUnloaded CellPhase = iota
	CellLoadedHidden
	CellLoadedVisible
)

func (p CellPhase) String() string {
	switch p {
	case CellUnloaded:
		return "unloaded"
	case CellLoadedHidden:
		return "loaded-hidden"
	case CellLoadedVisible:
		return "loaded-visible"
	default:
		return "unknown"
	}
}

// OpacityRequest tells the renderer what opacity to show and whether to
// animate there. How it is animated is up to the renderer.
type OpacityRequest struct {
	Opacity  float32
	Animate  bool
	Duration time.Duration
}

// CellState combines the one-way load flag with the suppression flag.
type CellState struct {
	loaded     bool
	suppressed bool
	fade       time.Duration
}

// NewCellState creates an unloaded cell state. A non-positive fade uses
// DefaultFadeDuration.
func NewCellState(fade time.Duration) *CellState {
	if fade <= 0 {
		fade = DefaultFadeDuration
	}
	return &CellState{fade: fade}
}

// Phase returns the current phase
func (s *CellState) Phase() CellPhase {
	switch {
	case !s.loaded:
		return CellUnloaded
	case s.suppressed:
		return CellLoadedHidden
	default:
		return CellLoadedVisible
	}
}

// Loaded reports whether the image finished loading
func (s *CellState) Loaded() bool { return s.loaded }

// Suppressed reports whether the viewer is currently showing this image
func (s *CellState) Suppressed() bool { return s.suppressed }

// Opacity returns the resting opacity for the current phase.
func (s *CellState) Opacity() float32 {
	if s.Phase() == CellLoadedVisible {
		return 1
	}
	return 0
}

// MarkLoaded records load completion. Only the first call returns a request:
// a fade-in, or an immediate 0 if the cell is suppressed at that moment.
func (s *CellState) MarkLoaded() (OpacityRequest, bool) {
	if s.loaded {
		return OpacityRequest{}, false
	}
	s.loaded = true
	if s.suppressed {
		return OpacityRequest{Opacity: 0}, true
	}
	return OpacityRequest{Opacity: 1, Animate: true, Duration: s.fade}, true
}

// SetSuppressed updates the suppression flag. A loaded cell jumps to the new
// opacity without animation; an unloaded cell stays transparent.
func (s *CellState) SetSuppressed(suppressed bool) (OpacityRequest, bool) {
	if s.suppressed == suppressed {
		return OpacityRequest{}, false
	}
	s.suppressed = suppressed
	if !s.loaded {
		return OpacityRequest{}, false
	}
	return OpacityRequest{Opacity: s.Opacity()}, true
}

// Reset returns the cell to unloaded, keeping the suppression flag. Used when
// a recycled cell is bound to a different image.
func (s *CellState) Reset() {
	s.loaded = false
}

// CellProps is the subset of a cell's inputs that affects its rendering.
type CellProps struct {
	ImageID         string
	Suppressed      bool
	Loaded          bool
	SelectedImageID string
	Width           float32
	Height          float32
}

// NeedsRefresh reports whether moving from p to next changes what the cell
// draws. Everything else a parent passes down is ignored.
func (p CellProps) NeedsRefresh(next CellProps) bool {
	return p.ImageID != next.ImageID ||
		p.Suppressed != next.Suppressed ||
		p.Loaded != next.Loaded ||
		p.SelectedImageID != next.SelectedImageID ||
		p.Width != next.Width ||
		p.Height != next.Height
}

// Selected reports whether the selection badge is shown
func (p CellProps) Selected() bool {
	return p.SelectedImageID != "" && p.SelectedImageID == p.ImageID
}
