package health

import (
	"context"
	"testing"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/provider"
)

func TestBreakerFailureChecker_HealthyBelowThreshold(t *testing.T) {
	cb := breaker.New(breaker.Config{RollingWindow: time.Minute, BucketCount: 10})
	cb.Success()

	c := NewBreakerFailureChecker("orders.get", cb, 3)
	res := c.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", res.Status)
	}
}

func TestBreakerFailureChecker_UnhealthyAtThreshold(t *testing.T) {
	cb := breaker.New(breaker.Config{RollingWindow: time.Minute, BucketCount: 10, MinRequestVolume: 1000})
	cb.Failure()
	cb.Failure()
	cb.Failure()

	c := NewBreakerFailureChecker("orders.get", cb, 3)
	res := c.Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", res.Status)
	}
	if c.Name() != "breaker.orders.get" {
		t.Errorf("Name() = %q, want %q", c.Name(), "breaker.orders.get")
	}
}

func TestDiscoveryChecker_UnhealthyBelowMinimum(t *testing.T) {
	pool := provider.NewInstancePool(provider.PoolConfig{
		Fetch: func(ctx context.Context) ([]provider.Instance, error) {
			return []provider.Instance{{ID: "a", BaseURI: "http://a"}}, nil
		},
	})
	if err := pool.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	c := NewDiscoveryChecker("orders", pool, 2)
	res := c.Check(context.Background())
	if res.Status != StatusUnhealthy {
		t.Errorf("Status = %v, want unhealthy", res.Status)
	}
}

func TestDiscoveryChecker_HealthyAtMinimum(t *testing.T) {
	pool := provider.NewInstancePool(provider.PoolConfig{
		Fetch: func(ctx context.Context) ([]provider.Instance, error) {
			return []provider.Instance{{ID: "a", BaseURI: "http://a"}, {ID: "b", BaseURI: "http://b"}}, nil
		},
	})
	if err := pool.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	c := NewDiscoveryChecker("orders", pool, 2)
	res := c.Check(context.Background())
	if res.Status != StatusHealthy {
		t.Errorf("Status = %v, want healthy", res.Status)
	}
}
