package gallery

import (
	"sync"
)

// Registration identifies one Register call so that a cell can later remove
// its own entry without evicting a newer cell registered under the same id.
type Registration struct {
	id  string
	seq uint64
}

// ID returns the image id of the registration
func (r Registration) ID() string { return r.id }

type registryEntry struct {
	measurer Measurer
	seq      uint64
}

// Registry maps image ids to the measurer of the cell currently showing them.
// Last registration wins.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]registryEntry
	seq     uint64
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]registryEntry),
	}
}

// Register stores m under id, replacing any previous handle.
func (r *Registry) Register(id string, m Measurer) Registration {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	r.entries[id] = registryEntry{measurer: m, seq: r.seq}
	return Registration{id: id, seq: r.seq}
}

// Lookup returns the last measurer registered for id, or nil.
func (r *Registry) Lookup(id string) Measurer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[id]
	if !ok {
		return nil
	}
	return entry.measurer
}

// Unregister removes the entry created by reg. It returns false when the id
// has since been registered again by someone else, or was never present.
func (r *Registry) Unregister(reg Registration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[reg.id]
	if !ok || entry.seq != reg.seq {
		return false
	}
	delete(r.entries, reg.id)
	return true
}

// Len returns the number of live entries
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}
