package gallery

// Package gallery implements the shared-element transition protocol behind the
// photo grid: the registry that maps image ids to cell measurers, the
// orchestrator that sequences grid suppression and viewer visibility, the grid
// geometry engine, and the per-cell fade state machine. It has no toolkit
// dependency; internal/ui binds it to fyne widgets.
