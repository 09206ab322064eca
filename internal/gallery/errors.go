package gallery

import (
	"errors"
	"fmt"
)

var (
	// ErrMeasurementNotReady is reported when a cell is measured before its
	// first layout pass. Measurement still proceeds on a best-effort basis.
	ErrMeasurementNotReady = errors.New("gallery: cell not ready to measure")

	// ErrNaturalSizeFetch matches every *SizeFetchError.
	ErrNaturalSizeFetch = errors.New("gallery: image size fetch failed")

	// ErrMissingMeasurer means no cell is registered for an id. Callers fall
	// back to a context-free transition.
	ErrMissingMeasurer = errors.New("gallery: no measurer registered")

	// ErrCellDetached is returned by a handle whose cell was rebound or torn
	// down after the handle was looked up.
	ErrCellDetached = errors.New("gallery: cell detached")

	// ErrUnknownImage is returned when an id is not part of the current images.
	ErrUnknownImage = errors.New("gallery: unknown image id")

	// ErrInvalidTransition is returned when an event does not apply to the
	// current phase.
	ErrInvalidTransition = errors.New("gallery: invalid transition")
)

// SizeFetchError reports a failed natural-size probe for one image.
type SizeFetchError struct {
	ID  string
	URI string
	Err error
}

func (e *SizeFetchError) Error() string {
	return fmt.Sprintf("fetch size of image %q (%s): %v", e.ID, e.URI, e.Err)
}

func (e *SizeFetchError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrNaturalSizeFetch) hold for any SizeFetchError.
func (e *SizeFetchError) Is(target error) bool {
	return target == ErrNaturalSizeFetch
}
