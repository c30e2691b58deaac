// Package engine implements the CommandEngine component of the command
// execution framework: the orchestrator tying the breaker, bulkhead,
// retry driver, cache, provider, and CommandContext together into one
// submission algorithm, exposed through three equivalent delivery
// shapes.
//
// # Algorithm
//
// Per submission:
//
//  1. Resolve the breaker + bulkhead keyed by the command's name,
//     creating them on first use from the Engine's PolicyResolver.
//  2. Ask the breaker to allow the call; a deny fails fast with
//     failure.KindShortCircuited.
//  3. Acquire a bulkhead slot; immediate exhaustion fails with
//     failure.KindPoolRejected.
//  4. Construct a fresh CommandContext seeded with the command's
//     builder-provided attributes.
//  5. Run the retry loop: each attempt checks the cache first, then
//     invokes the provider-resolved callback under the command's
//     per-attempt timeout, then (on success) writes back to cache.
//  6. Release the bulkhead slot and return the outcome.
//
// Every attempt's outcome updates the breaker's rolling counters,
// including attempts that will still be retried — the error rate is
// computed over raw attempt outcomes, not just the one that ends the
// loop. KindNonRetryable never counts against the breaker regardless of
// which attempt it occurs on.
//
// # Delivery shapes
//
//   - [Execute]: blocks the caller until the outcome is ready.
//   - [Enqueue]: returns a [Future] immediately; call Get to resolve it.
//   - [Observe]: returns a channel that delivers exactly one [Result].
//
// All three share Execute's algorithm verbatim; only the delivery of
// the outcome differs.
//
// # Chain
//
// [Chain] composes the same breaker/bulkhead/retry/timeout stages
// directly over a plain func(context.Context) error, for callers
// wrapping a single ad hoc call that doesn't warrant registering a
// full Command.
package engine
