package engine

import "github.com/jonwraymond/cmdcore/breaker"

// Policies bundles the breaker and bulkhead configuration resolved for
// one command name. Unlike the Command descriptor itself (built once per
// call site), Policies are resolved by command name at the moment the
// engine first sees that name: the breaker and pool keyed by the
// command's name are created on first use from the resolved policies.
type Policies struct {
	Breaker breaker.Config
	Pool    breaker.BulkheadConfig
}

// PolicyResolver maps a command name to its Policies. Implementations
// are consulted once per distinct command name — the Engine's Registry
// caches the resulting breaker and bulkhead for every later submission.
type PolicyResolver interface {
	Resolve(commandName string) Policies
}

// StaticPolicies is a PolicyResolver backed by a fixed default plus an
// optional per-command override map, mirroring the global-plus-per-command
// key lookup of config.Binding without requiring a live configuration
// source.
type StaticPolicies struct {
	Default    Policies
	PerCommand map[string]Policies
}

// Resolve returns the per-command override if one exists, else Default.
func (s StaticPolicies) Resolve(commandName string) Policies {
	if s.PerCommand != nil {
		if p, ok := s.PerCommand[commandName]; ok {
			return p
		}
	}
	return s.Default
}

var _ PolicyResolver = StaticPolicies{}
