package ui

import "time"

// UI-wide constants to avoid magic numbers/strings scattered across the codebase.

// Icons (emojis/symbols)
const (
	IconSettings = "⚙"
	IconFolder   = "📁"
	IconFile     = "📄"
	IconClose    = "×"
	IconPrev     = "‹"
	IconNext     = "›"
)

// Text fragments
const (
	MiddleDotSeparator = " · "
	PositionFormat     = "%d / %d"
)

// Grid sizing
const (
	// CellBadgePadding is the inset of the selection badge inside a cell.
	CellBadgePadding float32 = 4
	// CellPlaceholderAlpha is the alpha of the tile shown while a thumbnail loads.
	CellPlaceholderAlpha uint8 = 0x22
)

// Viewer sizing
const (
	ViewerPadding        float32 = 16
	ViewerCaptionSpacing float32 = 4
	ViewerBackdropAlpha  uint8   = 0xee
)

// Animation timings
const (
	ViewerTransitionDuration = 300 * time.Millisecond
)

// I/O timeouts for background work started by widgets
const (
	ThumbnailLoadTimeout = 30 * time.Second
	MeasureTimeout       = 5 * time.Second
)
