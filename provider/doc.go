// Package provider implements the UriProvider component of the command
// execution engine: a strategy that resolves a base endpoint for one
// attempt, invokes the caller's callback with it, and feeds
// instance-level errors back into the discovery pool so the retry driver
// lands on a different instance next time.
//
// # Core Components
//
//   - [Provider]: the Run(ctx, fn) contract every strategy implements
//   - [Constant]: stateless, always resolves the same base URI
//   - [Discovery]: queries an [InstancePool] on each call via a pluggable
//     [Selector] ([RoundRobin], [Random], [Weighted])
//   - [InstancePool]: discovered instances with error-mark counts and
//     availability, refreshed via a caller-supplied Fetch collaborator
//
// # Instance Health
//
// NoteError is called by [Discovery] whenever the callback fails in a
// way that implicates the specific instance (the default: any non-nil
// error). Once an instance accumulates PoolConfig.MaxErrors marks it is
// excluded from [InstancePool.Available] until ErrorResetAfter elapses —
// the provider itself never retries; it only ever resolves and marks.
//
// # Error Handling
//
//   - [ErrNoInstance]: the pool has no available instance (retryable)
//   - any other error propagates from the callback unchanged
package provider
