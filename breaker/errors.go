package breaker

import (
	"errors"
	"fmt"
)

// Sentinel errors for breaker operations.
var (
	// ErrOpen is returned when the circuit is open and the request is
	// rejected without invoking the guarded operation.
	ErrOpen = errors.New("breaker: circuit is open")

	// ErrPoolRejected is returned when the bulkhead has no available slot
	// (thread pool full or semaphore exhausted).
	ErrPoolRejected = errors.New("breaker: pool rejected, at capacity")
)

// panicToError recovers a thread-pool worker panic into an error rather
// than letting it escape the worker goroutine and crash the process.
func panicToError(r any) error {
	return fmt.Errorf("breaker: panic in pooled operation: %v", r)
}
