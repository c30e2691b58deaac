package retry

import "fmt"

// ExhaustedError wraps the last attempt's cause once MaxAttempts is
// reached without success. Unwrap exposes Cause so callers can still
// errors.Is/As against the original failure kind.
type ExhaustedError struct {
	Cause    error
	Attempts int
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("retry: exhausted after %d attempt(s): %v", e.Attempts, e.Cause)
}

func (e *ExhaustedError) Unwrap() error { return e.Cause }

