package command

import (
	"context"
	"time"

	"github.com/jonwraymond/cmdcore/cache"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/provider"
	"github.com/jonwraymond/cmdcore/retry"
)

// Callback is the caller-supplied remote invocation, run once per attempt
// with the base URI resolved by the provider for that attempt.
type Callback[T any] func(ctx context.Context, baseURI string) (T, error)

// Invoke is the shape an Interceptor wraps: identical to Callback once
// the provider's base URI has already been resolved.
type Invoke[T any] func(ctx context.Context, baseURI string) (T, error)

// Interceptor wraps the per-attempt callback invocation — logging,
// metrics, request signing, anything that needs to run around every
// remote call without the engine itself knowing about it.
type Interceptor[T any] func(next Invoke[T]) Invoke[T]

// CacheBinding pairs a cache with the key this command reads and writes.
// A zero CacheBinding (Cache == nil) means the command does not cache.
type CacheBinding struct {
	Cache *cache.Cache
	Key   string
	TTL   time.Duration // 0 uses the cache's Config.DefaultTTL
}

func (b CacheBinding) bound() bool {
	return b.Cache != nil && b.Key != ""
}

// Command is an immutable, caller-owned descriptor for one logical
// operation. Build one with [Builder]; the zero value is not usable.
type Command[T any] struct {
	name              string
	provider          provider.Provider
	callback          Callback[T]
	maxAttempts       int
	backoff           retry.Policy
	classify          failure.Classifier
	perAttemptTimeout time.Duration
	cache             CacheBinding
	interceptors      []Interceptor[T]
	initialAttrs      map[string]any
	listener          retry.Listener
}

// Name returns the command's logical name, used to key the breaker,
// bulkhead, and (indirectly, by the caller) its cache.
func (c *Command[T]) Name() string { return c.name }

// Provider returns the bound UriProvider strategy.
func (c *Command[T]) Provider() provider.Provider { return c.provider }

// MaxAttempts returns the configured retry budget, always ≥1.
func (c *Command[T]) MaxAttempts() int { return c.maxAttempts }

// Backoff returns the configured backoff policy.
func (c *Command[T]) Backoff() retry.Policy { return c.backoff }

// Classify returns the configured failure classifier.
func (c *Command[T]) Classify() failure.Classifier { return c.classify }

// PerAttemptTimeout returns the mandatory per-attempt latency budget.
func (c *Command[T]) PerAttemptTimeout() time.Duration { return c.perAttemptTimeout }

// Cache returns the command's cache binding; Cache.Cache is nil if unbound.
func (c *Command[T]) Cache() CacheBinding { return c.cache }

// Listener returns the retry listener (onOpen/onError/onClose hooks).
func (c *Command[T]) Listener() retry.Listener { return c.listener }

// InitialAttrs returns the builder-provided attributes to seed the
// per-invocation CommandContext with.
func (c *Command[T]) InitialAttrs() map[string]any { return c.initialAttrs }

// Invoke runs the resolved callback through every registered interceptor,
// innermost (last-added) first, matching the usual middleware chaining
// order: the first interceptor added is the outermost wrapper.
func (c *Command[T]) Invoke(ctx context.Context, baseURI string) (T, error) {
	next := Invoke[T](c.callback)
	for i := len(c.interceptors) - 1; i >= 0; i-- {
		next = c.interceptors[i](next)
	}
	return next(ctx, baseURI)
}
