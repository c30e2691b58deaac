package breaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonwraymond/cmdcore/ratelimit"
)

// Isolation selects how a Bulkhead bounds concurrency.
type Isolation int

const (
	// IsolationSemaphore is a counting semaphore: the submitting
	// goroutine runs the operation itself once a slot is acquired.
	IsolationSemaphore Isolation = iota
	// IsolationThreadPool dispatches the operation onto a fixed-size
	// worker pool with a bounded queue; the submitter blocks only for
	// the short queue-submission phase.
	IsolationThreadPool
)

// BulkheadConfig configures a Bulkhead.
type BulkheadConfig struct {
	// Isolation picks the concurrency model. Default: IsolationSemaphore.
	Isolation Isolation

	// MaxConcurrent is the maximum number of in-flight operations.
	// Default: 10.
	MaxConcurrent int

	// MaxQueueSize bounds the pending-submission queue when Isolation is
	// IsolationThreadPool. Default: 0 (submissions block on a full queue
	// until MaxWait, then reject).
	MaxQueueSize int

	// MaxWait is how long Acquire waits for a slot (or queue room)
	// before returning ErrPoolRejected. Default: 0 (reject immediately).
	MaxWait time.Duration

	// AdmissionRate, when set, gates Acquire behind a token-bucket rate
	// limiter ahead of the concurrency slot itself — a supplemental
	// fourth control alongside MaxConcurrent/MaxQueueSize/MaxWait.
	AdmissionRate *ratelimit.Config
}

func (c *BulkheadConfig) applyDefaults() {
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 10
	}
}

// Bulkhead bounds concurrent executions of a guarded operation: either a
// counting semaphore or a fixed worker pool with a bounded queue, chosen
// per policy. Slot release is guaranteed on every exit path, including a
// panic in the guarded operation.
type Bulkhead struct {
	config  BulkheadConfig
	sem     chan struct{}
	limiter *ratelimit.Limiter

	// workQueue backs IsolationThreadPool: workers pull off it and the
	// submitter's Acquire blocks only on the short hand-off.
	workQueue chan func()
	workersWG sync.WaitGroup

	mu        sync.Mutex
	active    int
	maxActive int
	rejected  int64
}

// NewBulkhead creates a Bulkhead. For IsolationThreadPool it also starts
// MaxConcurrent worker goroutines draining a queue of size MaxQueueSize.
func NewBulkhead(config BulkheadConfig) *Bulkhead {
	config.applyDefaults()
	slots := config.MaxConcurrent
	if config.Isolation == IsolationThreadPool && config.MaxQueueSize > 0 {
		// Admit up to MaxQueueSize submissions beyond the running ones;
		// they wait in workQueue for a free worker.
		slots += config.MaxQueueSize
	}
	b := &Bulkhead{
		config: config,
		sem:    make(chan struct{}, slots),
	}
	if config.AdmissionRate != nil {
		b.limiter = ratelimit.New(*config.AdmissionRate)
	}
	if config.Isolation == IsolationThreadPool {
		b.workQueue = make(chan func(), config.MaxQueueSize)
		for i := 0; i < config.MaxConcurrent; i++ {
			b.workersWG.Add(1)
			go b.worker()
		}
	}
	return b
}

func (b *Bulkhead) worker() {
	defer b.workersWG.Done()
	for fn := range b.workQueue {
		fn()
	}
}

// Acquire reserves a slot. Returns ErrPoolRejected if none is available
// within MaxWait (or immediately, if MaxWait is 0), or if AdmissionRate
// is configured and denies entry first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	if b.limiter != nil {
		if err := b.limiter.Execute(ctx, func(context.Context) error { return nil }); err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			b.noteRejected()
			return ErrPoolRejected
		}
	}

	select {
	case b.sem <- struct{}{}:
		b.noteAcquired()
		return nil
	default:
	}

	if b.config.MaxWait <= 0 {
		b.noteRejected()
		return ErrPoolRejected
	}

	timer := time.NewTimer(b.config.MaxWait)
	defer timer.Stop()

	select {
	case b.sem <- struct{}{}:
		b.noteAcquired()
		return nil
	case <-timer.C:
		b.noteRejected()
		return ErrPoolRejected
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release frees a slot acquired by Acquire.
func (b *Bulkhead) Release() {
	select {
	case <-b.sem:
		b.mu.Lock()
		b.active--
		b.mu.Unlock()
	default:
	}
}

func (b *Bulkhead) noteAcquired() {
	b.mu.Lock()
	b.active++
	if b.active > b.maxActive {
		b.maxActive = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) noteRejected() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// Execute runs op within the bulkhead. Under IsolationSemaphore the
// calling goroutine runs op directly once a slot is acquired. Under
// IsolationThreadPool the call is submitted to the worker pool and
// Execute blocks until it completes or ctx is cancelled, whether the call
// is still queued or already running (a running op is not interrupted;
// its result is discarded).
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	if b.config.Isolation != IsolationThreadPool {
		return op(ctx)
	}

	result := make(chan error, 1)
	task := func() {
		defer func() {
			if r := recover(); r != nil {
				result <- panicToError(r)
			}
		}()
		result <- op(ctx)
	}

	select {
	case b.workQueue <- task:
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Metrics returns current bulkhead statistics.
func (b *Bulkhead) Metrics() BulkheadMetrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return BulkheadMetrics{
		Active:        b.active,
		MaxActive:     b.maxActive,
		Available:     cap(b.sem) - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// BulkheadMetrics summarizes bulkhead occupancy.
type BulkheadMetrics struct {
	Active        int
	MaxActive     int
	Available     int
	MaxConcurrent int
	Rejected      int64
}

// Close stops the thread-pool workers, if any, and waits for them to
// drain. Safe to call on a semaphore-isolated bulkhead as a no-op.
func (b *Bulkhead) Close() {
	if b.workQueue != nil {
		close(b.workQueue)
		b.workersWG.Wait()
	}
}
