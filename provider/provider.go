package provider

import (
	"context"
	"errors"
)

// Sentinel errors for provider operations.
var (
	// ErrNoInstance is returned when a discovery-backed provider has no
	// available instance. Classified retryable.
	ErrNoInstance = errors.New("provider: no available instance")
)

// Callback is the user-supplied remote invocation, parameterized over the
// result type T, invoked once per attempt with the resolved base URI.
type Callback[T any] func(ctx context.Context, baseURI string) (T, error)

// Provider resolves a base endpoint for one attempt and invokes fn with
// it. Provider must NOT retry internally — the retry driver owns that.
type Provider interface {
	// Run resolves a base URI and invokes fn(ctx, baseURI). It fails with
	// ErrNoInstance (retryable) when no instance is available, or by
	// propagating whatever fn itself returned.
	Run(ctx context.Context, fn func(ctx context.Context, baseURI string) error) error
}

// Run is a small generic convenience wrapper around Provider.Run that
// lets callers work with a typed result instead of threading it through
// a closure-captured variable by hand.
func Run[T any](ctx context.Context, p Provider, cb Callback[T]) (T, error) {
	var result T
	err := p.Run(ctx, func(ctx context.Context, baseURI string) error {
		v, err := cb(ctx, baseURI)
		if err != nil {
			return err
		}
		result = v
		return nil
	})
	return result, err
}

// Constant is the stateless built-in Provider that always resolves the
// same base URI.
type Constant struct {
	BaseURI string
}

// NewConstant creates a Constant provider.
func NewConstant(baseURI string) *Constant {
	return &Constant{BaseURI: baseURI}
}

func (c *Constant) Run(ctx context.Context, fn func(ctx context.Context, baseURI string) error) error {
	return fn(ctx, c.BaseURI)
}

var _ Provider = (*Constant)(nil)
