package ui

// Package ui contains the Fyne widgets of the photo gallery: the virtualized
// thumbnail grid, the image cells that report their own geometry, and the
// full-screen viewer that grows out of the tapped cell. Gallery ties them to
// the transition state machine in internal/gallery.
