// Package ratelimit provides a token-bucket admission guard.
//
// It is an optional fourth control ahead of a breaker.Bulkhead: beyond
// max concurrency / max queued / queue-rejection threshold, production
// callers commonly add a token-bucket gate in front of the concurrency
// bound, so breaker.BulkheadConfig carries an optional *ratelimit.Config
// via AdmissionRate.
package ratelimit
