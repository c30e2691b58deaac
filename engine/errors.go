package engine

import "errors"

// ErrAttemptTimeout is the cause wrapped into a failure.KindTimeout error
// when a single attempt exceeds its per-attempt latency budget.
var ErrAttemptTimeout = errors.New("engine: attempt exceeded per-attempt timeout")
