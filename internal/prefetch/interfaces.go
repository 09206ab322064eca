package prefetch

import (
	"github.com/ytget/photo-gallery/internal/model"
)

// Prefetcher defines the interface for the prefetch service.
type Prefetcher interface {
	SetUpdateCallback(func(Task))
	AddTask(desc model.ImageDescriptor) (Task, error)
	AddAll(images []model.ImageDescriptor) int
	GetTask(id string) (Task, bool)
	GetAllTasks() []Task
	Stats() Stats
	Reset()

	// SetMaxParallel sets the maximum number of parallel probes
	SetMaxParallel(max int)
}
