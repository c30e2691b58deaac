package command

import (
	"log/slog"
	"time"

	"github.com/jonwraymond/cmdcore/cache"
	"github.com/jonwraymond/cmdcore/failure"
	"github.com/jonwraymond/cmdcore/provider"
	"github.com/jonwraymond/cmdcore/retry"
)

const defaultCommandName = "ApiCommand"

// defaultExponentialInitial is the default backoff: exponential, 500ms
// initial interval.
const defaultExponentialInitial = 500 * time.Millisecond

// defaultPerAttemptTimeout is the default requestTimeout.
const defaultPerAttemptTimeout = 8 * time.Second

// Builder constructs a Command[T]. The zero value is ready to use.
type Builder[T any] struct {
	cmd Command[T]
	log *slog.Logger
}

// NewBuilder creates a Builder. A nil logger defaults to slog.Default().
func NewBuilder[T any](logger *slog.Logger) *Builder[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder[T]{log: logger}
}

// WithName sets the logical command name.
func (b *Builder[T]) WithName(name string) *Builder[T] {
	b.cmd.name = name
	return b
}

// WithProvider sets the UriProvider strategy. Required.
func (b *Builder[T]) WithProvider(p provider.Provider) *Builder[T] {
	b.cmd.provider = p
	return b
}

// WithCallback sets the remote invocation. Required.
func (b *Builder[T]) WithCallback(cb Callback[T]) *Builder[T] {
	b.cmd.callback = cb
	return b
}

// WithMaxAttempts sets the retry budget, including the first attempt.
func (b *Builder[T]) WithMaxAttempts(n int) *Builder[T] {
	b.cmd.maxAttempts = n
	return b
}

// WithBackoff overrides the default exponential backoff policy.
func (b *Builder[T]) WithBackoff(p retry.Policy) *Builder[T] {
	b.cmd.backoff = p
	return b
}

// WithClassify overrides the default classification table.
func (b *Builder[T]) WithClassify(c failure.Classifier) *Builder[T] {
	b.cmd.classify = c
	return b
}

// WithPerAttemptTimeout overrides the default per-attempt latency budget.
func (b *Builder[T]) WithPerAttemptTimeout(d time.Duration) *Builder[T] {
	b.cmd.perAttemptTimeout = d
	return b
}

// WithCache binds a cache and key. An empty key leaves the command
// uncached even if c is non-nil.
func (b *Builder[T]) WithCache(c *cache.Cache, key string, ttl time.Duration) *Builder[T] {
	b.cmd.cache = CacheBinding{Cache: c, Key: key, TTL: ttl}
	return b
}

// WithInterceptor appends an Interceptor; the first one added becomes the
// outermost wrapper around the callback invocation.
func (b *Builder[T]) WithInterceptor(i Interceptor[T]) *Builder[T] {
	b.cmd.interceptors = append(b.cmd.interceptors, i)
	return b
}

// WithAttr seeds the per-invocation CommandContext with an initial
// key-value pair, visible to the callback and any interceptor.
func (b *Builder[T]) WithAttr(key string, value any) *Builder[T] {
	if b.cmd.initialAttrs == nil {
		b.cmd.initialAttrs = make(map[string]any)
	}
	b.cmd.initialAttrs[key] = value
	return b
}

// WithListener sets the retry onOpen/onError/onClose hooks.
func (b *Builder[T]) WithListener(l retry.Listener) *Builder[T] {
	b.cmd.listener = l
	return b
}

// Build validates and returns the Command: fails with
// failure.InvalidDescriptor if Provider or Callback is absent; silently
// repairs maxAttempts≤0 to 1 (logging a warning);
// defaults commandName to "ApiCommand"; defaults backoff to exponential
// with a 500ms initial interval; defaults classification to
// failure.DefaultTable().
func (b *Builder[T]) Build() (*Command[T], error) {
	if b.cmd.provider == nil || b.cmd.callback == nil {
		return nil, failure.New(failure.KindInvalidDescriptor,
			errMissingRequired(b.cmd.provider == nil, b.cmd.callback == nil))
	}

	if b.cmd.maxAttempts <= 0 {
		log := b.log
		if log == nil {
			log = slog.Default()
		}
		log.Warn("command: maxAttempts <= 0, repairing to 1", "command", b.cmd.name)
		b.cmd.maxAttempts = 1
	}
	if b.cmd.name == "" {
		b.cmd.name = defaultCommandName
	}
	if b.cmd.backoff == nil {
		b.cmd.backoff = retry.NewExponential(defaultExponentialInitial, 2.0, 0)
	}
	if b.cmd.classify == nil {
		table := failure.DefaultTable()
		b.cmd.classify = table.Classify
	}
	if b.cmd.perAttemptTimeout <= 0 {
		b.cmd.perAttemptTimeout = defaultPerAttemptTimeout
	}

	cmd := b.cmd
	return &cmd, nil
}

func errMissingRequired(noProvider, noCallback bool) error {
	switch {
	case noProvider && noCallback:
		return errMissingProviderAndCallback
	case noProvider:
		return errMissingProvider
	default:
		return errMissingCallback
	}
}
