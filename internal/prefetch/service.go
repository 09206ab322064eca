package prefetch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/ytget/photo-gallery/internal/model"
	"github.com/ytget/photo-gallery/internal/platform"
)

// Service defaults
const (
	DefaultMaxParallel = 4
	MaxRetries         = 1
	RetryBackoff       = 500 * time.Millisecond
)

// Service probes natural sizes with at most maxParallel probes in flight.
type Service struct {
	source platform.ImageSource

	tasks        map[string]*Task
	order        []string
	tasksMutex   sync.RWMutex
	maxParallel  int
	activeCount  int
	retryBackoff time.Duration
	ctx          context.Context
	cancel       context.CancelFunc
	onUpdate     func(Task) // callback for UI updates
}

var _ Prefetcher = (*Service)(nil)

// NewService creates a new prefetch service
func NewService(source platform.ImageSource, maxParallel int) *Service {
	if maxParallel < 1 {
		maxParallel = DefaultMaxParallel
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Service{
		source:       source,
		tasks:        make(map[string]*Task),
		maxParallel:  maxParallel,
		retryBackoff: RetryBackoff,
		ctx:          ctx,
		cancel:       cancel,
	}
}

// SetUpdateCallback sets the callback function for task updates. It is
// called from probe goroutines.
func (s *Service) SetUpdateCallback(callback func(Task)) {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()
	s.onUpdate = callback
}

// SetMaxParallel sets the maximum number of parallel probes
func (s *Service) SetMaxParallel(max int) {
	s.tasksMutex.Lock()
	if max < 1 {
		max = 1
	}
	s.maxParallel = max
	s.tasksMutex.Unlock()

	s.startPendingTasks()
}

// AddTask queues a probe for desc
func (s *Service) AddTask(desc model.ImageDescriptor) (Task, error) {
	if desc.ID == "" {
		return Task{}, fmt.Errorf("image has empty id")
	}

	s.tasksMutex.Lock()
	if existing, ok := s.tasks[desc.ID]; ok {
		s.tasksMutex.Unlock()
		return *existing, fmt.Errorf("task already exists for image: %s", desc.ID)
	}

	task := &Task{
		ID:     desc.ID,
		URI:    desc.FullSource(),
		Status: StatusPending,
	}
	s.tasks[task.ID] = task
	s.order = append(s.order, task.ID)
	snapshot := *task
	s.tasksMutex.Unlock()

	s.startPendingTasks()
	return snapshot, nil
}

// AddAll queues every image and returns how many were added
func (s *Service) AddAll(images []model.ImageDescriptor) int {
	added := 0
	for _, img := range images {
		if _, err := s.AddTask(img); err == nil {
			added++
		}
	}
	return added
}

// GetTask returns a task by image id
func (s *Service) GetTask(id string) (Task, bool) {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()
	task, exists := s.tasks[id]
	if !exists {
		return Task{}, false
	}
	return *task, true
}

// GetAllTasks returns all tasks in the order they were added
func (s *Service) GetAllTasks() []Task {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	tasks := make([]Task, 0, len(s.order))
	for _, id := range s.order {
		tasks = append(tasks, *s.tasks[id])
	}
	return tasks
}

// Stats returns task counts by outcome
func (s *Service) Stats() Stats {
	s.tasksMutex.RLock()
	defer s.tasksMutex.RUnlock()

	st := Stats{Total: len(s.tasks)}
	for _, task := range s.tasks {
		switch task.Status {
		case StatusDone:
			st.Done++
		case StatusError:
			st.Failed++
		default:
			st.Pending++
		}
	}
	return st
}

// Reset cancels in-flight probes and forgets all tasks. Results of the
// cancelled probes are dropped.
func (s *Service) Reset() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	s.cancel()
	s.ctx, s.cancel = context.WithCancel(context.Background())
	s.tasks = make(map[string]*Task)
	s.order = nil
	s.activeCount = 0
}

// startPendingTasks starts pending tasks while there is capacity
func (s *Service) startPendingTasks() {
	s.tasksMutex.Lock()
	defer s.tasksMutex.Unlock()

	for _, id := range s.order {
		if s.activeCount >= s.maxParallel {
			return
		}
		task := s.tasks[id]
		if task.Status != StatusPending {
			continue
		}
		task.Status = StatusProbing
		task.StartedAt = time.Now()
		s.activeCount++
		go s.runTask(s.ctx, task)
	}
}

// runTask probes one image
func (s *Service) runTask(ctx context.Context, task *Task) {
	s.notifyUpdate(task)

	size, attempts, err := s.probeWithRetry(ctx, task.URI)

	s.tasksMutex.Lock()
	if ctx.Err() != nil {
		// Reset happened; the task no longer belongs to this service.
		s.tasksMutex.Unlock()
		return
	}
	task.Attempts = attempts
	task.FinishedAt = time.Now()
	if err != nil {
		task.Status = StatusError
		task.LastError = err.Error()
	} else {
		task.Status = StatusDone
		task.Size = size
	}
	s.activeCount--
	s.tasksMutex.Unlock()

	if err != nil {
		slog.Warn("Image size prefetch failed", "id", task.ID, "uri", task.URI, "attempts", attempts, "error", err)
	}
	s.notifyUpdate(task)
	s.startPendingTasks()
}

// probeWithRetry attempts the probe with retry logic
func (s *Service) probeWithRetry(ctx context.Context, uri string) (model.NaturalSize, int, error) {
	if s.source == nil {
		return model.NaturalSize{}, 0, fmt.Errorf("no image source configured")
	}

	var lastErr error
	attempts := 0
	for attempt := 0; attempt <= MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-time.After(s.retryBackoff):
			case <-ctx.Done():
				return model.NaturalSize{}, attempts, ctx.Err()
			}
			slog.Debug("Retrying image size probe", "uri", uri, "attempt", attempt+1)
		}

		attempts++
		size, err := s.source.NaturalSize(ctx, uri)
		if err == nil {
			return size, attempts, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return model.NaturalSize{}, attempts, ctx.Err()
		}
	}
	return model.NaturalSize{}, attempts, lastErr
}

// notifyUpdate calls the update callback with a snapshot of task
func (s *Service) notifyUpdate(task *Task) {
	s.tasksMutex.RLock()
	cb := s.onUpdate
	snapshot := *task
	s.tasksMutex.RUnlock()

	if cb != nil {
		cb(snapshot)
	}
}
