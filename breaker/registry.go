package breaker

import "sync"

// Registry owns one CircuitBreaker and one Bulkhead per command name,
// created lazily on first reference. This is an explicit, struct-owned
// registry rather than a package-level global or anything
// reflection-based.
type Registry struct {
	mu       sync.Mutex
	breakers map[string]*CircuitBreaker
	pools    map[string]*Bulkhead
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		breakers: make(map[string]*CircuitBreaker),
		pools:    make(map[string]*Bulkhead),
	}
}

// Breaker returns the named command's CircuitBreaker, constructing it
// with cfg on first reference. Subsequent calls ignore cfg and return the
// existing instance.
func (r *Registry) Breaker(name string, cfg Config) *CircuitBreaker {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cb, ok := r.breakers[name]; ok {
		return cb
	}
	cb := New(cfg)
	r.breakers[name] = cb
	return cb
}

// Pool returns the named command's Bulkhead, constructing it with cfg on
// first reference. Subsequent calls ignore cfg and return the existing
// instance.
func (r *Registry) Pool(name string, cfg BulkheadConfig) *Bulkhead {
	r.mu.Lock()
	defer r.mu.Unlock()

	if b, ok := r.pools[name]; ok {
		return b
	}
	b := NewBulkhead(cfg)
	r.pools[name] = b
	return b
}

// Names returns every command name with a registered breaker.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	names := make([]string, 0, len(r.breakers))
	for name := range r.breakers {
		names = append(names, name)
	}
	return names
}

// Close releases pooled resources (thread-pool workers) for every
// registered Bulkhead.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, b := range r.pools {
		b.Close()
	}
}
