package ratelimit

import "errors"

// ErrExceeded is returned when the rate limit is exceeded and no wait
// is configured (or the wait times out).
var ErrExceeded = errors.New("ratelimit: rate limit exceeded")
