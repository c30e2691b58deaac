// Package retry implements the RetryDriver: attempt scheduling under a
// backoff [Policy], failure classification via [github.com/jonwraymond/cmdcore/failure],
// and a side-effect-only [Listener] protocol.
//
// # Ecosystem Position
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                         Driver.Execute loop                     │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   onOpen(i) ──▶ op(ctx) ──success──▶ onClose(nil), return        │
//	│                    │                                            │
//	│                  failure                                        │
//	│                    │                                            │
//	│               onError(i, err)                                   │
//	│                    │                                            │
//	│          classify(err) == NonRetryable? ──yes──▶ onClose, return │
//	│                    │no                                          │
//	│          i == MaxAttempts? ──yes──▶ ExhaustedError, onClose      │
//	│                    │no                                          │
//	│          sleep Backoff.Next(i), i++, repeat                      │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
//   - [Driver]: owns the loop over one [Config]
//   - [Policy]: [Constant], [Linear], [Exponential] (the latter wraps
//     cenkalti/backoff/v5's ExponentialBackOff for jitter and cap)
//   - [Listener]: onOpen/onError/onClose hooks, side-effect-only
//
// # Error Handling
//
// A classification of failure.KindNonRetryable aborts immediately and
// returns the cause unwrapped. Exhausting MaxAttempts instead wraps the
// last cause in [ExhaustedError], whose Unwrap exposes the original
// failure so callers can still errors.Is/As against it.
package retry
