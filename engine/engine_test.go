package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/cache"
	"github.com/jonwraymond/cmdcore/command"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/provider"
	"github.com/jonwraymond/cmdcore/retry"
)

func buildCommand[T any](t *testing.T, cb command.Callback[T], opts ...func(*command.Builder[T])) *command.Command[T] {
	t.Helper()
	b := command.NewBuilder[T](nil).
		WithProvider(provider.NewConstant("http://svc.internal")).
		WithCallback(cb)
	for _, opt := range opts {
		opt(b)
	}
	cmd, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return cmd
}

func TestExecute_SucceedsOnFirstAttempt(t *testing.T) {
	e := New()
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (string, error) {
		return baseURI + "/ok", nil
	})

	got, err := Execute(context.Background(), e, cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "http://svc.internal/ok" {
		t.Errorf("Execute() = %q, want %q", got, "http://svc.internal/ok")
	}
}

func TestExecute_RetriesUntilSuccess(t *testing.T) {
	e := New()
	defer e.Close()

	var calls int32
	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		n := atomic.AddInt32(&calls, 1)
		if n < 3 {
			return 0, failure.Retryable
		}
		return 42, nil
	}, func(b *command.Builder[int]) {
		b.WithMaxAttempts(5).WithBackoff(retry.Constant{Delay: time.Millisecond})
	})

	got, err := Execute(context.Background(), e, cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != 42 {
		t.Errorf("Execute() = %d, want 42", got)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestExecute_NonRetryableAbortsImmediately(t *testing.T) {
	e := New()
	defer e.Close()

	var calls int32
	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		atomic.AddInt32(&calls, 1)
		return 0, failure.NonRetryable
	}, func(b *command.Builder[int]) {
		b.WithMaxAttempts(5).WithBackoff(retry.Constant{Delay: time.Millisecond})
	})

	_, err := Execute(context.Background(), e, cmd)
	if !errors.Is(err, failure.NonRetryable) {
		t.Errorf("Execute() error = %v, want failure.NonRetryable", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("calls = %d, want 1 (no retry)", calls)
	}
}

func TestExecute_ExhaustedAttemptsPropagatesClassifiedCause(t *testing.T) {
	e := New()
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		return 0, failure.Retryable
	}, func(b *command.Builder[int]) {
		b.WithMaxAttempts(3).WithBackoff(retry.Constant{Delay: time.Millisecond})
	})

	_, err := Execute(context.Background(), e, cmd)
	var exhausted *retry.ExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("Execute() error = %v, want *retry.ExhaustedError", err)
	}
	if exhausted.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", exhausted.Attempts)
	}
	if !errors.Is(err, failure.Retryable) {
		t.Errorf("Execute() error should still satisfy errors.Is(failure.Retryable)")
	}
}

func TestExecute_OpensBreakerAfterRepeatedFailures(t *testing.T) {
	e := New(WithPolicyResolver(StaticPolicies{
		Default: Policies{
			Breaker: breaker.Config{
				ErrorThresholdPercent: 50,
				MinRequestVolume:      2,
				RollingWindow:         time.Minute,
				BucketCount:           10,
			},
		},
	}))
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		return 0, failure.Retryable
	}, func(b *command.Builder[int]) {
		b.WithMaxAttempts(1)
	})

	for i := 0; i < 2; i++ {
		if _, err := Execute(context.Background(), e, cmd); err == nil {
			t.Fatalf("attempt %d: expected error", i)
		}
	}

	_, err := Execute(context.Background(), e, cmd)
	if !errors.Is(err, failure.ShortCircuited) {
		t.Fatalf("Execute() error = %v, want failure.ShortCircuited once breaker trips", err)
	}
}

func TestExecute_PoolRejectedAtCapacity(t *testing.T) {
	e := New(WithPolicyResolver(StaticPolicies{
		Default: Policies{
			Pool: breaker.BulkheadConfig{
				Isolation:     breaker.IsolationSemaphore,
				MaxConcurrent: 1,
			},
		},
	}))
	defer e.Close()

	release := make(chan struct{})
	started := make(chan struct{})
	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		close(started)
		<-release
		return 1, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := Execute(context.Background(), e, cmd)
		done <- err
	}()
	<-started

	_, err := Execute(context.Background(), e, cmd)
	if !errors.Is(err, failure.PoolRejected) {
		t.Errorf("Execute() error = %v, want failure.PoolRejected", err)
	}

	close(release)
	if err := <-done; err != nil {
		t.Errorf("first Execute() error = %v", err)
	}
}

func TestExecute_CacheHitSkipsCallback(t *testing.T) {
	e := New()
	defer e.Close()

	backend := cache.NewMemoryBackend()
	c := cache.New(cache.Config{Name: "orders", Enabled: true, PutEnabled: true, DefaultTTL: time.Minute}, backend)

	var calls int32
	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "fresh", nil
	}, func(b *command.Builder[string]) {
		b.WithCache(c, "orders:1", 0)
	})

	got, err := Execute(context.Background(), e, cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "fresh" {
		t.Fatalf("first Execute() = %q, want %q", got, "fresh")
	}
	if calls != 1 {
		t.Fatalf("calls after first Execute() = %d, want 1", calls)
	}

	got, err = Execute(context.Background(), e, cmd)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if got != "fresh" {
		t.Errorf("second Execute() = %q, want %q (from cache)", got, "fresh")
	}
	if calls != 1 {
		t.Errorf("calls after second Execute() = %d, want 1 (cache hit should skip callback)", calls)
	}
}

func TestExecute_PerAttemptTimeoutClassifiesTimeout(t *testing.T) {
	e := New()
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		<-ctx.Done()
		return 0, ctx.Err()
	}, func(b *command.Builder[int]) {
		b.WithMaxAttempts(1).WithPerAttemptTimeout(10 * time.Millisecond)
	})

	_, err := Execute(context.Background(), e, cmd)
	if !errors.Is(err, failure.Timeout) {
		t.Errorf("Execute() error = %v, want failure.Timeout", err)
	}
}

func TestExecute_DiscoveryProviderMarksInstanceOnError(t *testing.T) {
	e := New()
	defer e.Close()

	pool := provider.NewInstancePool(provider.PoolConfig{
		Fetch: func(ctx context.Context) ([]provider.Instance, error) {
			return []provider.Instance{{ID: "a", BaseURI: "http://a"}, {ID: "b", BaseURI: "http://b"}}, nil
		},
		MaxErrors: 1,
	})
	if err := pool.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	disc := provider.NewDiscovery(pool, nil)

	var seen []string
	var failOnce sync.Once
	faultyID := ""
	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		seen = append(seen, baseURI)
		failed := false
		failOnce.Do(func() {
			failed = true
			faultyID = baseURI
		})
		if failed {
			return 0, provider.MarkInstanceFault(failure.Retryable)
		}
		return 1, nil
	}, func(b *command.Builder[int]) {
		b.WithProvider(disc).WithMaxAttempts(3).WithBackoff(retry.Constant{Delay: time.Millisecond})
	})

	got, err := Execute(context.Background(), e, cmd)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != 1 {
		t.Errorf("Execute() = %d, want 1", got)
	}
	if len(seen) < 2 {
		t.Fatalf("seen = %v, want at least 2 attempts", seen)
	}
	for _, uri := range seen[1:] {
		if uri == faultyID {
			t.Errorf("seen = %v, expected the faulty instance %q to be avoided after it errored", seen, faultyID)
		}
	}
}

func TestEnqueue_ResolvesFuture(t *testing.T) {
	e := New()
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (string, error) {
		return "async-ok", nil
	})

	fut := Enqueue(context.Background(), e, cmd)
	got, err := fut.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "async-ok" {
		t.Errorf("Get() = %q, want %q", got, "async-ok")
	}
}

func TestObserve_DeliversExactlyOneResult(t *testing.T) {
	e := New()
	defer e.Close()

	cmd := buildCommand(t, func(ctx context.Context, baseURI string) (int, error) {
		return 7, nil
	})

	ch := Observe(context.Background(), e, cmd)
	r, ok := <-ch
	if !ok {
		t.Fatal("expected a Result before channel close")
	}
	if r.Err != nil || r.Value != 7 {
		t.Errorf("Result = %+v, want {Value: 7, Err: nil}", r)
	}
	if _, ok := <-ch; ok {
		t.Error("expected channel to close after one delivery")
	}
}

func TestStaticPolicies_PerCommandOverride(t *testing.T) {
	sp := StaticPolicies{
		Default: Policies{Breaker: breaker.Config{MinRequestVolume: 20}},
		PerCommand: map[string]Policies{
			"orders.get": {Breaker: breaker.Config{MinRequestVolume: 2}},
		},
	}

	if got := sp.Resolve("orders.get").Breaker.MinRequestVolume; got != 2 {
		t.Errorf("Resolve(orders.get).Breaker.MinRequestVolume = %d, want 2", got)
	}
	if got := sp.Resolve("other").Breaker.MinRequestVolume; got != 20 {
		t.Errorf("Resolve(other).Breaker.MinRequestVolume = %d, want 20", got)
	}
}

func ExampleExecute() {
	e := New()
	defer e.Close()

	cmd, err := command.NewBuilder[string](nil).
		WithProvider(provider.NewConstant("http://svc.internal")).
		WithCallback(func(ctx context.Context, baseURI string) (string, error) {
			return fmt.Sprintf("%s/ping", baseURI), nil
		}).
		Build()
	if err != nil {
		fmt.Println("build error:", err)
		return
	}

	result, err := Execute(context.Background(), e, cmd)
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	fmt.Println(result)
	// Output: http://svc.internal/ping
}
