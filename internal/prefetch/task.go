package prefetch

import (
	"time"

	"github.com/ytget/photo-gallery/internal/model"
)

// Status represents the state of one probe
type Status string

const (
	StatusPending Status = "pending"
	StatusProbing Status = "probing"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

// IsFinished returns true if no more work happens for the task
func (s Status) IsFinished() bool {
	return s == StatusDone || s == StatusError
}

// Task is a snapshot of one image probe
type Task struct {
	ID         string
	URI        string
	Status     Status
	Size       model.NaturalSize
	Attempts   int
	LastError  string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Stats summarizes the tasks of a service
type Stats struct {
	Total   int
	Pending int
	Done    int
	Failed  int
}
