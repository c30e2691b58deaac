package retry

import (
	"context"
	"time"

	"github.com/jonwraymond/cmdcore/failure"
)

// Listener observes the retry loop without influencing its outcome.
// Every method is optional; a nil Listener (or nil fields) is a no-op.
type Listener struct {
	// OnOpen is called before each attempt, including the first.
	OnOpen func(attempt int)

	// OnError is called after an attempt fails, before any backoff sleep.
	OnError func(attempt int, cause error)

	// OnClose is called exactly once, after the terminal outcome is
	// known. cause is nil on success.
	OnClose func(cause error)
}

func (l Listener) onOpen(attempt int) {
	if l.OnOpen != nil {
		l.OnOpen(attempt)
	}
}

func (l Listener) onError(attempt int, cause error) {
	if l.OnError != nil {
		l.OnError(attempt, cause)
	}
}

func (l Listener) onClose(cause error) {
	if l.OnClose != nil {
		l.OnClose(cause)
	}
}

// Config configures a Driver.
type Config struct {
	// MaxAttempts is the maximum number of attempts, including the
	// first. Must be ≥1 (callers repair ≤0 to 1).
	MaxAttempts int

	// Backoff computes the inter-attempt sleep. Required.
	Backoff Policy

	// Classify maps an error to a failure.Kind, most-specific-first.
	// Defaults to failure.DefaultTable().Classify.
	Classify failure.Classifier

	// Listener observes the loop; all fields optional.
	Listener Listener
}

// Driver executes an operation with retry, backoff, and classification.
type Driver struct {
	cfg Config
}

// New creates a Driver. A nil Classify defaults to
// failure.DefaultTable().Classify; MaxAttempts ≤0 is treated as 1.
func New(cfg Config) *Driver {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 1
	}
	if cfg.Classify == nil {
		table := failure.DefaultTable()
		cfg.Classify = table.Classify
	}
	return &Driver{cfg: cfg}
}

// Execute runs op up to cfg.MaxAttempts times. Before each attempt,
// onOpen fires; after a failed attempt, onError fires; once the loop's
// terminal outcome is known (success, non-retryable abort, or attempts
// exhausted), onClose fires exactly once.
//
// A failure classified as failure.KindNonRetryable aborts immediately,
// regardless of attempts remaining. Any other classification retries
// until MaxAttempts is reached, at which point the last cause is wrapped
// in an *ExhaustedError.
func (d *Driver) Execute(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= d.cfg.MaxAttempts; attempt++ {
		d.cfg.Listener.onOpen(attempt)

		err := op(ctx)
		if err == nil {
			d.cfg.Listener.onClose(nil)
			return nil
		}

		lastErr = err
		d.cfg.Listener.onError(attempt, err)

		kind := d.cfg.Classify(err)
		if kind == failure.KindNonRetryable {
			d.cfg.Listener.onClose(err)
			return err
		}

		if attempt >= d.cfg.MaxAttempts {
			break
		}

		delay := d.cfg.Backoff.Next(attempt)
		if delay > 0 {
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				d.cfg.Listener.onClose(ctx.Err())
				return ctx.Err()
			case <-timer.C:
			}
		}
	}

	final := &ExhaustedError{Cause: lastErr, Attempts: d.cfg.MaxAttempts}
	d.cfg.Listener.onClose(final)
	return final
}
