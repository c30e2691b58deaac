package config

import (
	"context"
	"testing"
	"time"
)

func TestProperties_CommandOverrideWinsOverGlobal(t *testing.T) {
	p := New(map[string]string{
		"orders.client.numRetries":     "3",
		"orders.client.numRetries.get": "7",
	})

	if got := p.Int("orders.client.numRetries", "get", 1); got != 7 {
		t.Errorf("Int(get) = %d, want 7", got)
	}
	if got := p.Int("orders.client.numRetries", "list", 1); got != 3 {
		t.Errorf("Int(list) = %d, want 3 (falls back to global)", got)
	}
	if got := p.Int("missing.key", "get", 42); got != 42 {
		t.Errorf("Int(missing) = %d, want default 42", got)
	}
}

func TestProperties_Duration_BareIntegerIsMilliseconds(t *testing.T) {
	p := New(map[string]string{"x": "1500"})
	if got := p.Duration("x", "", 0); got != 1500*time.Millisecond {
		t.Errorf("Duration() = %v, want 1500ms", got)
	}
}

func TestProperties_Duration_AcceptsGoDurationString(t *testing.T) {
	p := New(map[string]string{"x": "2s"})
	if got := p.Duration("x", "", 0); got != 2*time.Second {
		t.Errorf("Duration() = %v, want 2s", got)
	}
}

func TestProperties_Bool(t *testing.T) {
	p := New(map[string]string{"enabled": "true", "garbage": "not-a-bool"})
	if !p.Bool("enabled", "", false) {
		t.Error("Bool(enabled) = false, want true")
	}
	if got := p.Bool("garbage", "", true); !got {
		t.Error("Bool(garbage) should fall back to default on parse failure")
	}
	if got := p.Bool("unset", "", true); !got {
		t.Error("Bool(unset) should return default")
	}
}

func TestProperties_Resolve_ExpandsEnvAndSecrets(t *testing.T) {
	t.Setenv("ORDERS_TOKEN", "shh")
	p := New(map[string]string{"auth": "Bearer ${ORDERS_TOKEN}"})

	got, ok, err := p.Resolve(context.Background(), "auth", "")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if !ok {
		t.Fatal("Resolve() ok = false, want true")
	}
	if got != "Bearer shh" {
		t.Errorf("Resolve() = %q, want %q", got, "Bearer shh")
	}
}

func TestKV_ParsesCommaSeparatedPairs(t *testing.T) {
	m := KV("host=localhost, port = 6379 ,empty=")
	if m["host"] != "localhost" || m["port"] != "6379" || m["empty"] != "" {
		t.Errorf("KV() = %#v", m)
	}
}
