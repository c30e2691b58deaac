package cache

import (
	"bytes"
	"context"
	"testing"
	"time"
)

func TestMemoryBackend_GetSetDelete(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	if _, ok := backend.Get(ctx, "nonexistent"); ok {
		t.Error("Get on empty backend should return ok=false")
	}

	key, value := "test-key", []byte("test-value")
	if err := backend.Set(ctx, key, value, 5*time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, ok := backend.Get(ctx, key)
	if !ok {
		t.Error("Get after Set should return ok=true")
	}
	if !bytes.Equal(got, value) {
		t.Errorf("Get returned %q, want %q", got, value)
	}

	if err := backend.Delete(ctx, key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := backend.Get(ctx, key); ok {
		t.Error("Get after Delete should return ok=false")
	}

	if err := backend.Delete(ctx, "nonexistent"); err != nil {
		t.Errorf("Delete on non-existent key should not error, got: %v", err)
	}
}

// TestMemoryBackend_ZeroTTLNeverExpires asserts the no-eviction contract:
// a Set with ttl<=0 must be retrievable indefinitely, not silently
// dropped.
func TestMemoryBackend_ZeroTTLNeverExpires(t *testing.T) {
	backend := NewMemoryBackend()
	now := time.Now()
	backend.now = func() time.Time { return now }
	ctx := context.Background()

	if err := backend.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	now = now.Add(365 * 24 * time.Hour)
	got, ok := backend.Get(ctx, "k")
	if !ok {
		t.Fatal("a zero-TTL entry must never expire")
	}
	if !bytes.Equal(got, []byte("v")) {
		t.Errorf("Get returned %q, want %q", got, "v")
	}
}

func TestMemoryBackend_TTLExpiry(t *testing.T) {
	backend := NewMemoryBackend()
	now := time.Now()
	backend.now = func() time.Time { return now }
	ctx := context.Background()

	backend.Set(ctx, "k", []byte("v"), 10*time.Millisecond)
	if _, ok := backend.Get(ctx, "k"); !ok {
		t.Fatal("expected hit immediately after Set")
	}

	now = now.Add(20 * time.Millisecond)
	if _, ok := backend.Get(ctx, "k"); ok {
		t.Fatal("expected expiry after TTL elapsed")
	}
}

func TestMemoryBackend_Purge(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()

	backend.Set(ctx, "a", []byte("1"), 0)
	backend.Set(ctx, "b", []byte("2"), 0)

	if err := backend.Purge(ctx); err != nil {
		t.Fatalf("Purge failed: %v", err)
	}
	if _, ok := backend.Get(ctx, "a"); ok {
		t.Error("expected miss for \"a\" after Purge")
	}
	if _, ok := backend.Get(ctx, "b"); ok {
		t.Error("expected miss for \"b\" after Purge")
	}
}

func TestMemoryBackend_Dump(t *testing.T) {
	backend := NewMemoryBackend()
	ctx := context.Background()
	backend.Set(ctx, "a", []byte("1"), 0)

	dump := backend.Dump(ctx)
	if dump == "" {
		t.Error("Dump should not be empty with live entries")
	}
}
