package cache

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Registry holds process-wide named caches: caches are named and
// process-wide after creation, with ownership shared by all commands
// binding the same name. First reference creates the entry; lifetime is
// the process. Shaped like a factory registry, but holds live instances
// rather than factories: a cache's Backend is stateful and must be
// shared, not re-built per lookup.
type Registry struct {
	mu     sync.RWMutex
	caches map[string]*Cache
}

// NewRegistry creates an empty cache registry.
func NewRegistry() *Registry {
	return &Registry{caches: make(map[string]*Cache)}
}

// GetOrCreate returns the named cache, creating it via build on first
// reference. Subsequent calls for the same name ignore build and return
// the existing instance.
func (r *Registry) GetOrCreate(name string, build func() *Cache) (*Cache, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("cache: name is required")
	}

	r.mu.RLock()
	c, ok := r.caches[name]
	r.mu.RUnlock()
	if ok {
		return c, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if c, ok := r.caches[name]; ok {
		return c, nil
	}

	c = build()
	if c == nil {
		return nil, fmt.Errorf("cache: build returned nil for %q", name)
	}
	r.caches[name] = c
	return c, nil
}

// Get returns the named cache if it has been created.
func (r *Registry) Get(name string) (*Cache, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.caches[name]
	return c, ok
}

// Names returns every registered cache name, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caches))
	for n := range r.caches {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// DefaultRegistry is the process-wide registry used when the engine is
// not given an explicit one.
var DefaultRegistry = NewRegistry()
