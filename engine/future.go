package engine

import (
	"context"

	"github.com/jonwraymond/cmdcore/command"
	"github.com/jonwraymond/cmdcore/failure"
)

// Future is the enqueue delivery shape: a handle that resolves with the
// same outcome Execute would have returned, once the submission
// completes.
type Future[T any] struct {
	done   chan struct{}
	result T
	err    error
}

// Get blocks until the future resolves or ctx is cancelled first, in
// which case it returns a failure.KindCancelled error wrapping ctx.Err()
// without waiting for the in-flight attempt. Get's ctx only ends the
// wait; the submission itself runs under the ctx passed to Enqueue.
func (f *Future[T]) Get(ctx context.Context) (T, error) {
	select {
	case <-f.done:
		return f.result, f.err
	case <-ctx.Done():
		var zero T
		return zero, failure.New(failure.KindCancelled, ctx.Err())
	}
}

// Enqueue submits cmd and returns immediately with a Future resolving
// once the engine's Execute algorithm completes. Core semantics are
// identical to Execute; only the delivery is asynchronous.
func Enqueue[T any](ctx context.Context, e *Engine, cmd *command.Command[T]) *Future[T] {
	fut := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(fut.done)
		fut.result, fut.err = Execute(ctx, e, cmd)
	}()
	return fut
}

// Result is one (and only one) delivery from an Observe stream: either a
// value or a classified error, never both.
type Result[T any] struct {
	Value T
	Err   error
}

// Observe submits cmd and returns a channel that delivers exactly one
// Result before closing — a reactive-stream delivery shape that emits
// next(value) or error(kind) exactly once. Core semantics are identical
// to Execute.
func Observe[T any](ctx context.Context, e *Engine, cmd *command.Command[T]) <-chan Result[T] {
	ch := make(chan Result[T], 1)
	go func() {
		v, err := Execute(ctx, e, cmd)
		ch <- Result[T]{Value: v, Err: err}
		close(ch)
	}()
	return ch
}
