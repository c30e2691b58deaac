package provider

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// InstancePool holds the discovered instances for one command's
// discovery session. No instance state is owned by the Command; the
// pool's lifetime is the discovery session that created it (typically
// process-wide, refreshed on a timer by the caller's discovery client).
//
// Concurrent Refresh calls for the same pool are collapsed into one via
// singleflight, the same dedup pattern used for concurrent JWKS key-set
// fetches.
type InstancePool struct {
	mu          sync.RWMutex
	instances   map[string]*trackedInstance
	maxErrors   int
	errorResetAfter time.Duration

	group singleflight.Group
	fetch func(ctx context.Context) ([]Instance, error)
}

type trackedInstance struct {
	instance    Instance
	errorCount  int
	lastError   time.Time
	unavailable bool
}

// PoolConfig configures an InstancePool.
type PoolConfig struct {
	// MaxErrors is how many noted errors mark an instance unavailable.
	// Default: 3.
	MaxErrors int

	// ErrorResetAfter restores an unavailable instance once this long has
	// elapsed since its last noted error. Default: 30s.
	ErrorResetAfter time.Duration

	// Fetch retrieves the current instance list from the caller's
	// discovery client (a registry client, DNS SRV lookup, etc. — an
	// external collaborator this package does not own).
	Fetch func(ctx context.Context) ([]Instance, error)
}

// NewInstancePool creates a pool. Fetch is required; Refresh calls it.
func NewInstancePool(cfg PoolConfig) *InstancePool {
	if cfg.MaxErrors <= 0 {
		cfg.MaxErrors = 3
	}
	if cfg.ErrorResetAfter <= 0 {
		cfg.ErrorResetAfter = 30 * time.Second
	}
	return &InstancePool{
		instances:       make(map[string]*trackedInstance),
		maxErrors:       cfg.MaxErrors,
		errorResetAfter: cfg.ErrorResetAfter,
		fetch:           cfg.Fetch,
	}
}

// Refresh fetches the current instance set, preserving error-mark state
// for instances that are still present.
func (p *InstancePool) Refresh(ctx context.Context) error {
	if p.fetch == nil {
		return nil
	}

	_, err, _ := p.group.Do("refresh", func() (any, error) {
		fetched, err := p.fetch(ctx)
		if err != nil {
			return nil, err
		}

		p.mu.Lock()
		defer p.mu.Unlock()

		next := make(map[string]*trackedInstance, len(fetched))
		for _, inst := range fetched {
			if existing, ok := p.instances[inst.ID]; ok {
				existing.instance = inst
				next[inst.ID] = existing
			} else {
				next[inst.ID] = &trackedInstance{instance: inst}
			}
		}
		p.instances = next
		return nil, nil
	})
	return err
}

// Available returns every instance not currently marked unavailable,
// restoring instances whose error mark has aged past ErrorResetAfter.
// The result is sorted by instance ID, so selectors see a stable order.
func (p *InstancePool) Available() []Instance {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	out := make([]Instance, 0, len(p.instances))
	for _, t := range p.instances {
		if t.unavailable && now.Sub(t.lastError) >= p.errorResetAfter {
			t.unavailable = false
			t.errorCount = 0
		}
		if !t.unavailable {
			out = append(out, t.instance)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// NoteError penalizes the instance identified by id. Once MaxErrors is
// reached, the instance is marked unavailable until ErrorResetAfter
// elapses, so the next Available() excludes it and the selector (and
// thus the retry driver's next attempt) picks a different instance.
func (p *InstancePool) NoteError(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.instances[id]
	if !ok {
		return
	}
	t.errorCount++
	t.lastError = time.Now()
	if t.errorCount >= p.maxErrors {
		t.unavailable = true
	}
}

// Count returns the total number of known instances, available or not.
func (p *InstancePool) Count() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.instances)
}

// AvailableCount returns the number of currently available instances.
func (p *InstancePool) AvailableCount() int {
	return len(p.Available())
}

// Discovery is the discovery-backed Provider: it queries the pool on
// each call, invokes the user callback with the selected instance's base
// URI, and notes an error against the instance whenever the callback
// fails (unless the error's InstanceFault method returns false) so the next
// attempt (driven by the retry package, not by Discovery itself) lands on
// a different instance.
type Discovery struct {
	Pool     *InstancePool
	Selector Selector
}

// NewDiscovery creates a discovery-backed provider. A nil Selector
// defaults to round-robin.
func NewDiscovery(pool *InstancePool, selector Selector) *Discovery {
	if selector == nil {
		selector = NewRoundRobin()
	}
	return &Discovery{Pool: pool, Selector: selector}
}

func (d *Discovery) Run(ctx context.Context, fn func(ctx context.Context, baseURI string) error) error {
	candidates := d.Pool.Available()
	if len(candidates) == 0 {
		return ErrNoInstance
	}

	inst := d.Selector.Select(candidates)
	err := fn(ctx, inst.BaseURI)
	if err != nil && isInstanceFault(err) {
		d.Pool.NoteError(inst.ID)
	}
	return err
}

// instanceFault is implemented by errors that should penalize the
// instance that produced them (retryable transport errors, timeouts).
// Callers that want NoteError invoked should wrap their error with
// MarkInstanceFault, or rely on the default: any non-nil error marks the
// instance, since a caller-supplied callback signals a problem with that
// specific instance far more often than not.
type instanceFault interface {
	InstanceFault() bool
}

func isInstanceFault(err error) bool {
	if f, ok := err.(instanceFault); ok {
		return f.InstanceFault()
	}
	return true
}

// MarkInstanceFault wraps err so Discovery.Run always treats it as an
// instance-level fault (the default behavior), useful for callers that
// otherwise implement instanceFault to opt out for some errors.
type markedFault struct{ error }

func (markedFault) InstanceFault() bool { return true }

func MarkInstanceFault(err error) error {
	if err == nil {
		return nil
	}
	return markedFault{err}
}

var _ Provider = (*Discovery)(nil)
