package retry

import (
	"context"
	"testing"
)

// BenchmarkDriver_Execute_Success measures happy-path overhead (no retries).
func BenchmarkDriver_Execute_Success(b *testing.B) {
	d := New(Config{MaxAttempts: 3, Backoff: NewConstant(0)})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = d.Execute(ctx, func(ctx context.Context) error { return nil })
	}
}

// BenchmarkExponential_Next measures jittered-delay computation cost.
func BenchmarkExponential_Next(b *testing.B) {
	e := NewExponential(10, 2.0, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = e.Next(i%5 + 1)
	}
}
