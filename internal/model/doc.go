package model

// Package model defines the gallery's data structures: image descriptors,
// measured geometry, and the open/closed phase of the image viewer. Types are
// plain values so they can be passed between the UI goroutine and measurement
// goroutines without sharing state.
