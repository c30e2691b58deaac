package engine

import (
	"context"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/retry"
)

// Chain composes the breaker, bulkhead, retry driver, and a per-attempt
// timeout directly over a plain func(context.Context) error, for
// callers who want to wrap a single ad hoc call without registering a
// Command. Its ordering is bulkhead outside the breaker, breaker outside
// the retry driver, timeout innermost. This differs from Execute, which
// consults the breaker before taking a bulkhead slot and records a
// breaker outcome per attempt rather than once per call.
type Chain struct {
	breaker  *breaker.CircuitBreaker
	bulkhead *breaker.Bulkhead
	driver   *retry.Driver
	timeout  time.Duration
}

// ChainOption configures a Chain.
type ChainOption func(*Chain)

// WithChainBreaker adds circuit breaking to the chain.
func WithChainBreaker(cb *breaker.CircuitBreaker) ChainOption {
	return func(c *Chain) { c.breaker = cb }
}

// WithChainBulkhead adds concurrency isolation to the chain.
func WithChainBulkhead(b *breaker.Bulkhead) ChainOption {
	return func(c *Chain) { c.bulkhead = b }
}

// WithChainRetry adds a retry driver to the chain.
func WithChainRetry(d *retry.Driver) ChainOption {
	return func(c *Chain) { c.driver = d }
}

// WithChainTimeout bounds each call with a fixed per-attempt timeout.
func WithChainTimeout(timeout time.Duration) ChainOption {
	return func(c *Chain) { c.timeout = timeout }
}

// NewChain builds a Chain from opts. An unconfigured stage is a no-op.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Execute runs op through whichever stages were configured, outermost
// (bulkhead) to innermost (timeout).
func (c *Chain) Execute(ctx context.Context, op func(context.Context) error) error {
	call := op
	if c.timeout > 0 {
		inner := call
		call = func(ctx context.Context) error {
			_, err := callWithTimeout(ctx, c.timeout, func(ctx context.Context) (struct{}, error) {
				return struct{}{}, inner(ctx)
			})
			return err
		}
	}

	if c.driver != nil {
		inner := call
		call = func(ctx context.Context) error {
			return c.driver.Execute(ctx, inner)
		}
	}

	if c.breaker != nil {
		inner := call
		call = func(ctx context.Context) error {
			if err := c.breaker.Allow(); err != nil {
				return failure.New(failure.KindShortCircuited, err)
			}
			err := inner(ctx)
			if err == nil {
				c.breaker.Success()
				return nil
			}
			kind, _ := failure.OfKind(err)
			if kind.CountsAgainstBreaker() {
				if kind == failure.KindTimeout {
					c.breaker.Timeout()
				} else {
					c.breaker.Failure()
				}
			}
			return err
		}
	}

	if c.bulkhead != nil {
		return c.bulkhead.Execute(ctx, call)
	}
	return call(ctx)
}
