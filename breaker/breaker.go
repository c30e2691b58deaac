package breaker

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// State is one of the three circuit breaker states.
type State int

const (
	// StateClosed means requests pass through and are counted.
	StateClosed State = iota
	// StateOpen means requests are rejected without invoking the guarded operation.
	StateOpen
	// StateHalfOpen means a single probe request is admitted to test recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config configures a CircuitBreaker.
type Config struct {
	// ErrorThresholdPercent is the error rate (0-100) that, once reached
	// with MinRequestVolume events seen, trips the circuit open.
	// Default: 50.
	ErrorThresholdPercent float64

	// RollingWindow is the total duration the error rate is computed
	// over. Default: 10s.
	RollingWindow time.Duration

	// BucketCount subdivides RollingWindow into this many buckets; a
	// bucket's counts are dropped once the window slides past it.
	// Default: 10.
	BucketCount int

	// MinRequestVolume is the minimum number of events in the rolling
	// window before the error rate is evaluated at all. Default: 20.
	MinRequestVolume int

	// SleepWindow is how long the breaker stays OPEN before allowing a
	// single HALF_OPEN probe. Default: 5s.
	SleepWindow time.Duration

	// ForcedOpen, if true, always rejects regardless of counters.
	ForcedOpen bool

	// ForcedClosed, if true, always admits regardless of counters.
	// ForcedOpen wins if both are set.
	ForcedClosed bool

	// OnStateChange is called (outside any internal lock) when the breaker
	// trips to OPEN and when a HALF_OPEN probe closes it. The OPEN →
	// HALF_OPEN move after SleepWindow is not reported.
	OnStateChange func(from, to State)
}

func (c *Config) applyDefaults() {
	if c.ErrorThresholdPercent <= 0 {
		c.ErrorThresholdPercent = 50
	}
	if c.RollingWindow <= 0 {
		c.RollingWindow = 10 * time.Second
	}
	if c.BucketCount <= 0 {
		c.BucketCount = 10
	}
	if c.MinRequestVolume <= 0 {
		c.MinRequestVolume = 20
	}
	if c.SleepWindow <= 0 {
		c.SleepWindow = 5 * time.Second
	}
}

// bucket holds atomic event counters for one slice of the rolling window.
type bucket struct {
	success      atomic.Int64
	failure      atomic.Int64
	timeout      atomic.Int64
	shortCircuit atomic.Int64
	rejected     atomic.Int64
}

func (b *bucket) reset() {
	b.success.Store(0)
	b.failure.Store(0)
	b.timeout.Store(0)
	b.shortCircuit.Store(0)
	b.rejected.Store(0)
}

// CircuitBreaker is a per-command-name breaker over a rolling bucketed
// window. State transitions are serialized; only one HALF_OPEN probe is
// ever admitted concurrently.
type CircuitBreaker struct {
	config Config

	bucketDuration time.Duration
	buckets        []bucket

	mu            sync.Mutex
	state         State
	openedAt      time.Time
	lastBucket    int64 // absolute bucket number (time / bucketDuration)
	probeInFlight bool
}

// New creates a CircuitBreaker, starting CLOSED.
func New(cfg Config) *CircuitBreaker {
	cfg.applyDefaults()
	cb := &CircuitBreaker{
		config:         cfg,
		bucketDuration: cfg.RollingWindow / time.Duration(cfg.BucketCount),
		buckets:        make([]bucket, cfg.BucketCount),
		state:          StateClosed,
	}
	return cb
}

func (cb *CircuitBreaker) currentBucket(now time.Time) *bucket {
	abs := now.UnixNano() / int64(cb.bucketDuration)
	idx := int(abs % int64(cb.config.BucketCount))
	if abs != cb.lastBucket {
		// Clear every bucket between the last-seen slot and now; a gap
		// longer than the whole window clears all of them.
		n := abs - cb.lastBucket
		if n < 0 || n > int64(cb.config.BucketCount) {
			n = int64(cb.config.BucketCount)
		}
		last := int(cb.lastBucket % int64(cb.config.BucketCount))
		for i := 1; i <= int(n); i++ {
			cb.buckets[(last+i)%cb.config.BucketCount].reset()
		}
		cb.lastBucket = abs
	}
	return &cb.buckets[idx]
}

// Counts summarizes the rolling window at the moment of the call.
type Counts struct {
	Success      int64
	Failure      int64
	Timeout      int64
	ShortCircuit int64
	Rejected     int64
}

// Total is every counted event in the window, including short-circuited
// and rejected requests.
func (c Counts) Total() int64 {
	return c.Success + c.Failure + c.Timeout + c.ShortCircuit + c.Rejected
}

// ErrorRate is (failure+timeout)/total as a percentage (0-100), or 0
// when total is 0.
func (c Counts) ErrorRate() float64 {
	total := c.Total()
	if total == 0 {
		return 0
	}
	return float64(c.Failure+c.Timeout) / float64(total) * 100
}

// Counts returns the current rolling-window counters.
func (cb *CircuitBreaker) Counts() Counts {
	var out Counts
	for i := range cb.buckets {
		b := &cb.buckets[i]
		out.Success += b.success.Load()
		out.Failure += b.failure.Load()
		out.Timeout += b.timeout.Load()
		out.ShortCircuit += b.shortCircuit.Load()
		out.Rejected += b.rejected.Load()
	}
	return out
}

// State returns the current state, resolving an elapsed sleep window into
// HALF_OPEN first.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.config.ForcedOpen {
		return StateOpen
	}
	if cb.config.ForcedClosed {
		return StateClosed
	}
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.SleepWindow {
		// currentStateLocked is called with mu already held by every
		// caller in this file; the sleep-window-elapsed transition is
		// not passed to OnStateChange, here or later, since notifying
		// would require dropping mu mid-call.
		cb.state = StateHalfOpen
		cb.probeInFlight = false
	}
	return cb.state
}

// transitionLocked changes state and returns the (from, to) pair if a
// transition occurred, or ok=false if to equals the current state. The
// caller is responsible for invoking OnStateChange after releasing mu, to
// avoid a reentrant deadlock if the callback queries the breaker.
func (cb *CircuitBreaker) transitionLocked(to State) (from State, ok bool) {
	from = cb.state
	if from == to {
		return from, false
	}
	cb.state = to
	if to == StateOpen {
		cb.openedAt = time.Now()
	}
	if to != StateHalfOpen {
		cb.probeInFlight = false
	}
	return from, true
}

// Allow reports whether a call may proceed. It must be paired with
// exactly one of Success, Failure, or Timeout once the call completes (or
// ShortCircuit is implicit when Allow itself rejects).
func (cb *CircuitBreaker) Allow() error {
	cb.mu.Lock()

	state := cb.currentStateLocked()
	var err error
	switch state {
	case StateOpen:
		cb.currentBucket(time.Now()).shortCircuit.Add(1)
		err = ErrOpen
	case StateHalfOpen:
		if cb.probeInFlight {
			cb.currentBucket(time.Now()).shortCircuit.Add(1)
			err = ErrOpen
		} else {
			cb.probeInFlight = true
		}
	}
	cb.mu.Unlock()
	return err
}

// Success records a successful call outcome and closes the circuit if it
// was the HALF_OPEN probe.
func (cb *CircuitBreaker) Success() {
	cb.mu.Lock()

	cb.currentBucket(time.Now()).success.Add(1)
	var from State
	var changed bool
	if cb.state == StateHalfOpen {
		from, changed = cb.transitionLocked(StateClosed)
		for i := range cb.buckets {
			cb.buckets[i].reset()
		}
	}
	cb.mu.Unlock()

	if changed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, StateClosed)
	}
}

// Timeout records a timed-out call outcome; it counts toward the error
// rate identically to Failure.
func (cb *CircuitBreaker) Timeout() {
	cb.recordFailureLike(func(b *bucket) { b.timeout.Add(1) })
}

// Failure records a failed call outcome, tripping the circuit open either
// immediately (if it was the HALF_OPEN probe) or once the rolling window's
// error rate crosses the configured threshold.
func (cb *CircuitBreaker) Failure() {
	cb.recordFailureLike(func(b *bucket) { b.failure.Add(1) })
}

func (cb *CircuitBreaker) recordFailureLike(add func(*bucket)) {
	cb.mu.Lock()

	add(cb.currentBucket(time.Now()))

	var from State
	var changed bool
	switch {
	case cb.state == StateHalfOpen:
		from, changed = cb.transitionLocked(StateOpen)
	case cb.state == StateClosed:
		counts := cb.countsLocked()
		if counts.Total() >= int64(cb.config.MinRequestVolume) && counts.ErrorRate() >= cb.config.ErrorThresholdPercent {
			from, changed = cb.transitionLocked(StateOpen)
		}
	}
	cb.mu.Unlock()

	if changed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, StateOpen)
	}
}

func (cb *CircuitBreaker) countsLocked() Counts {
	var out Counts
	for i := range cb.buckets {
		b := &cb.buckets[i]
		out.Success += b.success.Load()
		out.Failure += b.failure.Load()
		out.Timeout += b.timeout.Load()
		out.ShortCircuit += b.shortCircuit.Load()
		out.Rejected += b.rejected.Load()
	}
	return out
}

// NoteRejected records a bulkhead-rejected call against the breaker's
// window without affecting state (rejections count toward Total but
// never toward ErrorRate's numerator).
func (cb *CircuitBreaker) NoteRejected() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.currentBucket(time.Now()).rejected.Add(1)
}

// Execute runs op through the breaker: Allow gates admission, and the
// call's outcome is classified by isTimeout/isFailure into Success,
// Timeout, or Failure. A rejection from Allow is returned unchanged and
// op is never invoked.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error, isTimeout func(error) bool) error {
	if err := cb.Allow(); err != nil {
		return err
	}

	err := op(ctx)
	switch {
	case err == nil:
		cb.Success()
	case isTimeout != nil && isTimeout(err):
		cb.Timeout()
	default:
		cb.Failure()
	}
	return err
}
