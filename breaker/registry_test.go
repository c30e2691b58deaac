package breaker

import "testing"

func TestRegistry_Breaker_SameInstanceForSameName(t *testing.T) {
	r := NewRegistry()

	a := r.Breaker("orders.get", Config{ErrorThresholdPercent: 10})
	b := r.Breaker("orders.get", Config{ErrorThresholdPercent: 90})

	if a != b {
		t.Error("Breaker() should return the same instance for the same command name")
	}
	if a.config.ErrorThresholdPercent != 10 {
		t.Errorf("second call's cfg should be ignored once constructed, got %v", a.config.ErrorThresholdPercent)
	}
}

func TestRegistry_Pool_SameInstanceForSameName(t *testing.T) {
	r := NewRegistry()

	a := r.Pool("orders.get", BulkheadConfig{MaxConcurrent: 2})
	b := r.Pool("orders.get", BulkheadConfig{MaxConcurrent: 99})

	if a != b {
		t.Error("Pool() should return the same instance for the same command name")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()
	r.Breaker("a", Config{})
	r.Breaker("b", Config{})

	names := r.Names()
	if len(names) != 2 {
		t.Fatalf("Names() = %v, want 2 entries", names)
	}
}

func TestRegistry_DistinctNamesGetDistinctBreakers(t *testing.T) {
	r := NewRegistry()
	a := r.Breaker("a", Config{})
	b := r.Breaker("b", Config{})

	if a == b {
		t.Error("distinct command names should get distinct breaker instances")
	}
}
