package health

import (
	"context"
	"fmt"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/provider"
)

// BreakerFailureChecker reports UNHEALTHY when a command's rolling
// failure count meets or exceeds MinFailures.
type BreakerFailureChecker struct {
	name        string
	breaker     *breaker.CircuitBreaker
	minFailures int64
}

// NewBreakerFailureChecker creates a checker over cb, named for the
// command it guards. minFailures <= 0 defaults to 1.
func NewBreakerFailureChecker(commandName string, cb *breaker.CircuitBreaker, minFailures int64) *BreakerFailureChecker {
	if minFailures <= 0 {
		minFailures = 1
	}
	return &BreakerFailureChecker{name: commandName, breaker: cb, minFailures: minFailures}
}

// Name returns "breaker.<commandName>".
func (c *BreakerFailureChecker) Name() string {
	return "breaker." + c.name
}

// Check inspects the breaker's current rolling counts.
func (c *BreakerFailureChecker) Check(ctx context.Context) Result {
	counts := c.breaker.Counts()
	details := map[string]any{
		"state":        c.breaker.State().String(),
		"success":      counts.Success,
		"failure":      counts.Failure,
		"timeout":      counts.Timeout,
		"min_failures": c.minFailures,
	}

	failures := counts.Failure + counts.Timeout
	if failures >= c.minFailures {
		return Unhealthy(
			fmt.Sprintf("command %q: %d failures in rolling window (>= %d)", c.name, failures, c.minFailures),
			ErrCheckFailed,
		).WithDetails(details)
	}

	return Healthy(fmt.Sprintf("command %q: %d failures in rolling window", c.name, failures)).WithDetails(details)
}

var _ Checker = (*BreakerFailureChecker)(nil)

// DiscoveryChecker reports UNHEALTHY when a discovery pool's available
// instance count drops below MinInstances.
type DiscoveryChecker struct {
	name         string
	pool         *provider.InstancePool
	minInstances int
}

// NewDiscoveryChecker creates a checker over pool. minInstances <= 0
// defaults to 1.
func NewDiscoveryChecker(poolName string, pool *provider.InstancePool, minInstances int) *DiscoveryChecker {
	if minInstances <= 0 {
		minInstances = 1
	}
	return &DiscoveryChecker{name: poolName, pool: pool, minInstances: minInstances}
}

// Name returns "discovery.<poolName>".
func (c *DiscoveryChecker) Name() string {
	return "discovery." + c.name
}

// Check inspects the pool's currently available instance count.
func (c *DiscoveryChecker) Check(ctx context.Context) Result {
	available := c.pool.AvailableCount()
	details := map[string]any{
		"available":     available,
		"total":         c.pool.Count(),
		"min_instances": c.minInstances,
	}

	if available < c.minInstances {
		return Unhealthy(
			fmt.Sprintf("pool %q: %d available instances (< %d required)", c.name, available, c.minInstances),
			ErrCheckFailed,
		).WithDetails(details)
	}

	return Healthy(fmt.Sprintf("pool %q: %d available instances", c.name, available)).WithDetails(details)
}

var _ Checker = (*DiscoveryChecker)(nil)
