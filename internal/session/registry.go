package session

import (
	"sync"
	"time"

	"github.com/ashureev/rps-labs/internal/game"
)

// Factory creates the shell for a new page key.
type Factory func(key string) *game.Shell

type entry struct {
	shell    *game.Shell
	lastSeen time.Time
}

// Registry holds one shell per page key.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	factory Factory
	now     func() time.Time
}

// NewRegistry creates a registry that builds shells with factory.
func NewRegistry(factory Factory) *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		factory: factory,
		now:     time.Now,
	}
}

// Get returns the shell for key, creating it on first use, and marks the key
// as seen.
func (r *Registry) Get(key string) *game.Shell {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[key]
	if !ok {
		e = &entry{shell: r.factory(key)}
		r.entries[key] = e
	}
	e.lastSeen = r.now()
	return e.shell
}

// Peek returns the shell for key without creating or touching it.
func (r *Registry) Peek(key string) (*game.Shell, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[key]
	if !ok {
		return nil, false
	}
	return e.shell, true
}

// Touch marks key as seen if it exists.
func (r *Registry) Touch(key string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.entries[key]; ok {
		e.lastSeen = r.now()
	}
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Evict removes sessions idle longer than ttl and returns their keys.
// Sessions with a submission in flight are kept.
func (r *Registry) Evict(ttl time.Duration) []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-ttl)
	var evicted []string
	for key, e := range r.entries {
		if e.lastSeen.After(cutoff) || e.shell.Session().Pending() {
			continue
		}
		delete(r.entries, key)
		evicted = append(evicted, key)
	}
	return evicted
}
