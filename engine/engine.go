package engine

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/cmdctx"
	"github.com/jonwraymond/cmdcore/command"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/provider"
	"github.com/jonwraymond/cmdcore/retry"
)

// Engine owns the name-indexed registries of breakers and bulkheads
// shared by every command submission — no global mutable state exists
// outside these name-indexed registries. It carries no state keyed by
// result type, so the generic entrypoints below are package-level
// functions rather than methods — Go methods cannot introduce their own
// type parameters.
type Engine struct {
	registry *breaker.Registry
	resolver PolicyResolver
	log      *slog.Logger
}

// Option configures an Engine at construction.
type Option func(*Engine)

// WithPolicyResolver overrides the default (zero-value) policy resolver.
func WithPolicyResolver(r PolicyResolver) Option {
	return func(e *Engine) { e.resolver = r }
}

// WithLogger overrides the engine's logger. Default: slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New creates an Engine. With no options, every command name resolves to
// default breaker and bulkhead configuration (see breaker.Config and
// breaker.BulkheadConfig zero-value defaults).
func New(opts ...Option) *Engine {
	e := &Engine{
		registry: breaker.NewRegistry(),
		resolver: StaticPolicies{},
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = slog.Default()
	}
	return e
}

// Close drains every bulkhead's worker pool. Pools are owned per command
// name and drained only at process shutdown.
func (e *Engine) Close() {
	e.registry.Close()
}

// Names returns every command name the engine has resolved policies for.
func (e *Engine) Names() []string {
	return e.registry.Names()
}

func (e *Engine) resolve(name string) (*breaker.CircuitBreaker, *breaker.Bulkhead) {
	pol := e.resolver.Resolve(name)
	return e.registry.Breaker(name, pol.Breaker), e.registry.Pool(name, pol.Pool)
}

// Execute runs cmd to completion and blocks the caller until a result or
// a classified failure is ready — the synchronous delivery shape.
// Enqueue and Observe share this exact algorithm; only the delivery
// differs.
func Execute[T any](ctx context.Context, e *Engine, cmd *command.Command[T]) (T, error) {
	var zero T

	cb, pool := e.resolve(cmd.Name())

	if err := cb.Allow(); err != nil {
		return zero, failure.New(failure.KindShortCircuited, err)
	}

	cctx := cmdctx.New(cmd.Name())
	for k, v := range cmd.InitialAttrs() {
		cctx.Set(k, v)
	}

	maxAttempts := cmd.MaxAttempts()
	classify := cmd.Classify()
	binding := cmd.Cache()
	userListener := cmd.Listener()

	var result T
	driver := retry.New(retry.Config{
		MaxAttempts: maxAttempts,
		Backoff:     cmd.Backoff(),
		Classify:    classify,
		Listener: retry.Listener{
			OnOpen: func(attempt int) {
				if userListener.OnOpen != nil {
					userListener.OnOpen(attempt)
				}
			},
			OnError: func(attempt int, cause error) {
				recordBreakerOutcome(cb, classify, cause)
				if userListener.OnError != nil {
					userListener.OnError(attempt, cause)
				}
			},
			OnClose: func(cause error) {
				if cause == nil {
					cb.Success()
				}
				if userListener.OnClose != nil {
					userListener.OnClose(cause)
				}
			},
		},
	})

	bulkheadErr := pool.Execute(ctx, func(ctx context.Context) error {
		return driver.Execute(ctx, func(ctx context.Context) error {
			v, hit, err := attempt(ctx, cmd, binding)
			if err != nil {
				return err
			}
			result = v
			_ = hit
			return nil
		})
	})

	if bulkheadErr != nil {
		if errors.Is(bulkheadErr, breaker.ErrPoolRejected) {
			return zero, failure.New(failure.KindPoolRejected, bulkheadErr)
		}
		return result, bulkheadErr
	}
	return result, nil
}

// recordBreakerOutcome classifies a failed attempt and records the
// corresponding breaker event for every attempt that counts against the
// breaker, not only the one that finally ends the retry loop: the
// breaker's rolling error rate is computed over raw attempt outcomes, so
// a command that fails three retryable attempts before succeeding on the
// fourth still contributes three failure events to the window.
// NonRetryable never counts against the breaker's error rate, so it is
// classified but not recorded.
func recordBreakerOutcome(cb *breaker.CircuitBreaker, classify failure.Classifier, cause error) {
	kind := classify(cause)
	if !kind.CountsAgainstBreaker() {
		return
	}
	if kind == failure.KindTimeout {
		cb.Timeout()
		return
	}
	cb.Failure()
}

// attempt runs one try of cmd: a cache check, then (on miss) the
// provider-resolved callback under the per-attempt latency budget, then
// a best-effort cache put. hit reports whether the value came from
// cache, for callers that want to skip recording it again.
func attempt[T any](ctx context.Context, cmd *command.Command[T], binding command.CacheBinding) (T, bool, error) {
	var zero T

	if binding.Cache != nil && binding.Key != "" {
		if out := binding.Cache.Get(ctx, binding.Key); out.Found() {
			var v T
			if err := json.Unmarshal(out.Value(), &v); err == nil {
				return v, true, nil
			}
		}
	}

	v, err := callWithTimeout(ctx, cmd.PerAttemptTimeout(), func(ctx context.Context) (T, error) {
		return provider.Run(ctx, cmd.Provider(), cmd.Invoke)
	})
	if err != nil {
		return zero, false, err
	}

	if binding.Cache != nil && binding.Key != "" {
		if raw, mErr := json.Marshal(v); mErr == nil {
			binding.Cache.Put(ctx, binding.Key, raw, binding.TTL)
		}
	}
	return v, false, nil
}

// callWithTimeout enforces the mandatory per-attempt latency budget:
// when it elapses before fn returns, the attempt is abandoned and
// classified as KindTimeout. A late, post-timeout success is
// discarded — fn's result is never observed by the caller in that case.
func callWithTimeout[T any](ctx context.Context, timeout time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if timeout <= 0 {
		return fn(ctx)
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		v   T
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		v, err := fn(ctx)
		done <- outcome{v, err}
	}()

	select {
	case o := <-done:
		return o.v, o.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, failure.New(failure.KindTimeout, ErrAttemptTimeout)
		}
		return zero, failure.New(failure.KindCancelled, ctx.Err())
	}
}
