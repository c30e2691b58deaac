package provider

import (
	"math/rand/v2"
	"sync/atomic"
)

// Instance is one discovered service endpoint.
type Instance struct {
	ID      string
	BaseURI string
	Weight  int // used only by the Weighted selector; <=0 treated as 1
}

// Selector picks one instance from a candidate set. Implementations must
// be safe for concurrent use and must only choose among available
// (non-error-marked) instances — the InstancePool filters before calling
// Select.
type Selector interface {
	Select(candidates []Instance) Instance
}

// RoundRobin cycles through candidates in order, wrapping atomically.
type RoundRobin struct {
	counter atomic.Uint64
}

func NewRoundRobin() *RoundRobin { return &RoundRobin{} }

func (r *RoundRobin) Select(candidates []Instance) Instance {
	i := r.counter.Add(1) - 1
	return candidates[int(i%uint64(len(candidates)))]
}

// Random picks uniformly at random.
type Random struct{}

func NewRandom() *Random { return &Random{} }

func (Random) Select(candidates []Instance) Instance {
	return candidates[rand.IntN(len(candidates))]
}

// Weighted picks with probability proportional to Instance.Weight
// (non-positive weights are treated as 1).
type Weighted struct{}

func NewWeighted() *Weighted { return &Weighted{} }

func (Weighted) Select(candidates []Instance) Instance {
	total := 0
	for _, c := range candidates {
		total += normalizedWeight(c)
	}
	if total <= 0 {
		return candidates[0]
	}

	pick := rand.IntN(total)
	running := 0
	for _, c := range candidates {
		running += normalizedWeight(c)
		if pick < running {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

func normalizedWeight(i Instance) int {
	if i.Weight <= 0 {
		return 1
	}
	return i.Weight
}

var (
	_ Selector = (*RoundRobin)(nil)
	_ Selector = Random{}
	_ Selector = Weighted{}
)
