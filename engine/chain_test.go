package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/retry"
)

func TestChain_ComposesBulkheadBreakerRetryTimeout(t *testing.T) {
	bh := breaker.NewBulkhead(breaker.BulkheadConfig{MaxConcurrent: 2})
	cb := breaker.New(breaker.Config{RollingWindow: time.Minute, BucketCount: 10})
	driver := retry.New(retry.Config{MaxAttempts: 3, Backoff: retry.Constant{Delay: time.Millisecond}})

	c := NewChain(
		WithChainBulkhead(bh),
		WithChainBreaker(cb),
		WithChainRetry(driver),
		WithChainTimeout(time.Second),
	)

	var calls int32
	err := c.Execute(context.Background(), func(ctx context.Context) error {
		n := atomic.AddInt32(&calls, 1)
		if n < 2 {
			return failure.Retryable
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2", calls)
	}
}

func TestChain_NonRetryableDoesNotCountAgainstBreaker(t *testing.T) {
	cb := breaker.New(breaker.Config{RollingWindow: time.Minute, BucketCount: 10, MinRequestVolume: 1})
	c := NewChain(WithChainBreaker(cb))

	_ = c.Execute(context.Background(), func(ctx context.Context) error {
		return failure.NonRetryable
	})

	counts := cb.Counts()
	if counts.Failure != 0 {
		t.Errorf("Counts().Failure = %d, want 0 (NonRetryable must not count against breaker)", counts.Failure)
	}
}

func TestChain_EmptyChainRunsOpDirectly(t *testing.T) {
	c := NewChain()
	called := false
	err := c.Execute(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Errorf("Execute() error = %v, called = %v", err, called)
	}
}

func TestChain_BreakerShortCircuitsAfterRejections(t *testing.T) {
	cb := breaker.New(breaker.Config{
		RollingWindow:    time.Minute,
		BucketCount:      10,
		MinRequestVolume: 1,
	})
	c := NewChain(WithChainBreaker(cb))

	for i := 0; i < 2; i++ {
		_ = c.Execute(context.Background(), func(ctx context.Context) error {
			return failure.Retryable
		})
	}

	err := c.Execute(context.Background(), func(ctx context.Context) error {
		t.Fatal("op should not run once breaker is open")
		return nil
	})
	if !errors.Is(err, failure.ShortCircuited) {
		t.Errorf("Execute() error = %v, want failure.ShortCircuited", err)
	}
}
