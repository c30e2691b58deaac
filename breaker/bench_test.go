package breaker

import (
	"context"
	"testing"
	"time"
)

// BenchmarkCircuitBreaker_Execute_Closed measures happy path execution.
func BenchmarkCircuitBreaker_Execute_Closed(b *testing.B) {
	cb := New(Config{MinRequestVolume: 1_000_000, SleepWindow: time.Minute})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.Execute(ctx, func(ctx context.Context) error { return nil }, nil)
	}
}

// BenchmarkCircuitBreaker_State measures state inspection overhead.
func BenchmarkCircuitBreaker_State(b *testing.B) {
	cb := New(Config{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = cb.State()
	}
}

// BenchmarkBulkhead_Execute_Semaphore measures semaphore-isolated overhead.
func BenchmarkBulkhead_Execute_Semaphore(b *testing.B) {
	bh := NewBulkhead(BulkheadConfig{MaxConcurrent: 64})
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = bh.Execute(ctx, func(ctx context.Context) error { return nil })
	}
}
