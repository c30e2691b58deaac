package retry

import (
	"math/rand/v2"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// Policy computes the sleep duration before the next attempt. attempt is
// 1-indexed: Next(1) is the delay inserted between the first and second
// attempts.
type Policy interface {
	Next(attempt int) time.Duration
}

// Constant always returns the same delay.
type Constant struct {
	Delay time.Duration
}

// NewConstant creates a Constant backoff policy.
func NewConstant(delay time.Duration) Constant { return Constant{Delay: delay} }

func (c Constant) Next(attempt int) time.Duration { return c.Delay }

// Linear grows the delay by Step for every attempt past the first.
type Linear struct {
	Initial time.Duration
	Step    time.Duration
	Max     time.Duration
}

// NewLinear creates a Linear backoff policy. A zero Max disables capping.
func NewLinear(initial, step, max time.Duration) Linear {
	return Linear{Initial: initial, Step: step, Max: max}
}

func (l Linear) Next(attempt int) time.Duration {
	d := l.Initial + l.Step*time.Duration(attempt-1)
	if l.Max > 0 && d > l.Max {
		d = l.Max
	}
	return d
}

// Exponential wraps cenkalti/backoff/v5's ExponentialBackOff to compute a
// jittered, capped exponential delay from an initial interval.
type Exponential struct {
	backoff *backoff.ExponentialBackOff
}

// NewExponential creates an Exponential backoff policy. A zero
// multiplier defaults to 2.0; a zero max keeps cenkalti's default cap
// (backoff.DefaultMaxInterval).
func NewExponential(initial time.Duration, multiplier float64, max time.Duration) Exponential {
	if multiplier <= 0 {
		multiplier = 2.0
	}
	opts := []backoff.ExponentialBackOffOpts{
		backoff.WithInitialInterval(initial),
		backoff.WithMultiplier(multiplier),
		backoff.WithRandomizationFactor(0.25),
	}
	if max > 0 {
		opts = append(opts, backoff.WithMaxInterval(max))
	}
	return Exponential{backoff: backoff.NewExponentialBackOff(opts...)}
}

func (e Exponential) Next(attempt int) time.Duration {
	// cenkalti's BackOff is stateful (it tracks its own attempt count),
	// so drive it forward from a fresh copy each time to keep Next
	// purely a function of attempt rather than of call history.
	b := *e.backoff
	b.Reset()
	var d time.Duration
	for i := 0; i < attempt; i++ {
		next := b.NextBackOff()
		if next == backoff.Stop {
			break
		}
		d = next
	}
	return d
}

// jitterFraction adds up to pct*d of extra random delay (pct is a
// fraction: 0.25 adds up to 25%). It is package-internal, and none of the
// policies in this package call it.
func jitterFraction(d time.Duration, pct float64) time.Duration {
	if d <= 0 || pct <= 0 {
		return d
	}
	extra := time.Duration(rand.Float64() * pct * float64(d))
	return d + extra
}
