package config

import (
	"strings"
	"time"

	"github.com/jonwraymond/cmdcore/breaker"
	"github.com/jonwraymond/cmdcore/cache"
	"github.com/jonwraymond/cmdcore/engine"
	"github.com/jonwraymond/cmdcore/ratelimit"
)

// Defaults mirror the configuration surface's stated defaults:
// coreSize=5, perAttemptTimeout=8000ms, circuitSleep=5000ms,
// rollingWindow=10000ms, fallbackEnabled=false,
// executionIsolation=thread, connectTimeout=requestTimeout=2000ms,
// maxAttempts=3.
const (
	DefaultCoreSize           = 5
	DefaultPerAttemptTimeout  = 8000 * time.Millisecond
	DefaultCircuitSleep       = 5000 * time.Millisecond
	DefaultRollingWindow      = 10000 * time.Millisecond
	DefaultRollingWindowBucks = 10
	DefaultFallbackEnabled    = false
	DefaultExecutionIsolation = "thread"
	DefaultConnectTimeout     = 2000 * time.Millisecond
	DefaultRequestTimeout     = 2000 * time.Millisecond
	DefaultMaxAttempts        = 3
	DefaultMinRequestVolume   = 20
	DefaultErrorThresholdPct  = 50
)

// Binding adapts a Properties store, rooted at a client prefix, into
// engine.PolicyResolver: each call to Resolve reads the
// "<prefix>.client.command.<option>.<cmd>" and
// "<prefix>.client.threadpool.<option>.<cmd>" keys for that command name,
// falling back to the global (non-command-suffixed) key, then to the
// stated defaults. The command name is always the last key segment;
// keys of the form "<prefix>.client.command.<cmd>.<option>" are not read.
type Binding struct {
	Props  *Properties
	Prefix string
}

// NewBinding creates a Binding over props rooted at prefix (the
// configured client/service name, e.g. "orders").
func NewBinding(props *Properties, prefix string) Binding {
	return Binding{Props: props, Prefix: prefix}
}

func (b Binding) commandKey(suffix string) string {
	return b.Prefix + ".client.command." + suffix
}

func (b Binding) poolKey(suffix string) string {
	return b.Prefix + ".client.threadpool." + suffix
}

// Resolve implements engine.PolicyResolver.
func (b Binding) Resolve(commandName string) engine.Policies {
	return engine.Policies{
		Breaker: b.breakerConfig(commandName),
		Pool:    b.bulkheadConfig(commandName),
	}
}

func (b Binding) breakerConfig(cmd string) breaker.Config {
	p := b.Props
	return breaker.Config{
		ErrorThresholdPercent: p.Float(b.commandKey("errorThresholdPercent"), cmd, DefaultErrorThresholdPct),
		RollingWindow:         p.Duration(b.commandKey("rollingWindow"), cmd, DefaultRollingWindow),
		BucketCount:           p.Int(b.commandKey("rollingWindowBuckets"), cmd, DefaultRollingWindowBucks),
		MinRequestVolume:      p.Int(b.commandKey("minRequestVolume"), cmd, DefaultMinRequestVolume),
		SleepWindow:           p.Duration(b.commandKey("circuitSleep"), cmd, DefaultCircuitSleep),
		ForcedOpen:            p.Bool(b.commandKey("forcedOpen"), cmd, false),
		ForcedClosed:          p.Bool(b.commandKey("forcedClosed"), cmd, false),
	}
}

func (b Binding) bulkheadConfig(cmd string) breaker.BulkheadConfig {
	p := b.Props
	isolation := breaker.IsolationThreadPool
	if p.String(b.commandKey("executionIsolation"), cmd, DefaultExecutionIsolation) == "semaphore" {
		isolation = breaker.IsolationSemaphore
	}
	cfg := breaker.BulkheadConfig{
		Isolation:     isolation,
		MaxConcurrent: p.Int(b.poolKey("coreSize"), cmd, DefaultCoreSize),
		MaxQueueSize:  p.Int(b.poolKey("maxQueueSize"), cmd, 0),
		MaxWait:       p.Duration(b.poolKey("maxWait"), cmd, 0),
	}
	if rate := p.Float(b.poolKey("admissionRate"), cmd, 0); rate > 0 {
		cfg.AdmissionRate = &ratelimit.Config{
			Rate:        rate,
			Burst:       p.Int(b.poolKey("admissionBurst"), cmd, int(rate)),
			WaitOnLimit: p.Bool(b.poolKey("admissionWait"), cmd, false),
			MaxWait:     p.Duration(b.poolKey("admissionMaxWait"), cmd, 0),
		}
	}
	return cfg
}

// MaxAttempts resolves "<prefix>.client.numRetries[.<cmd>]".
func (b Binding) MaxAttempts(cmd string) int {
	n := b.Props.Int(b.Prefix+".client.numRetries", cmd, DefaultMaxAttempts)
	if n <= 0 {
		return 1
	}
	return n
}

// PerAttemptTimeout resolves "<prefix>.client.command.perAttemptTimeout[.<cmd>]".
func (b Binding) PerAttemptTimeout(cmd string) time.Duration {
	return b.Props.Duration(b.commandKey("perAttemptTimeout"), cmd, DefaultPerAttemptTimeout)
}

// ConnectTimeout resolves "<prefix>.client.connectTimeout[.<cmd>]", for
// callers wiring their own HTTP transport (out of scope for the engine
// itself — the engine accepts a user-supplied callback, not a
// transport).
func (b Binding) ConnectTimeout(cmd string) time.Duration {
	return b.Props.Duration(b.Prefix+".client.connectTimeout", cmd, DefaultConnectTimeout)
}

// RequestTimeout resolves "<prefix>.client.requestTimeout[.<cmd>]".
func (b Binding) RequestTimeout(cmd string) time.Duration {
	return b.Props.Duration(b.Prefix+".client.requestTimeout", cmd, DefaultRequestTimeout)
}

// FallbackEnabled resolves "<prefix>.client.command.fallbackEnabled[.<cmd>]".
func (b Binding) FallbackEnabled(cmd string) bool {
	return b.Props.Bool(b.commandKey("fallbackEnabled"), cmd, DefaultFallbackEnabled)
}

// MinFailures resolves "<prefix>.client.healthCheck.minFailures".
func (b Binding) MinFailures() int64 {
	return int64(b.Props.Int(b.Prefix+".client.healthCheck.minFailures", "", 1))
}

// DefaultAcceptTypes resolves "<prefix>.client.defaultAcceptTypes" as a
// comma-separated list, for transport collaborators.
func (b Binding) DefaultAcceptTypes() []string {
	v := b.Props.String(b.Prefix+".client.defaultAcceptTypes", "", "")
	if v == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// HTTPLoggingDebug resolves "<prefix>.client.httpLoggingDebug".
func (b Binding) HTTPLoggingDebug() bool {
	return b.Props.Bool(b.Prefix+".client.httpLoggingDebug", "", false)
}

// ResponseTimingDebug resolves "<prefix>.client.responseTimingDebug".
func (b Binding) ResponseTimingDebug() bool {
	return b.Props.Bool(b.Prefix+".client.responseTimingDebug", "", false)
}

// CacheConfig resolves "<prefix>.client.cache.<name>.{enabled,type,config}"
// into a cache.Config. The backend-specific "config" string (`k=v,k=v`,
// see KV) is returned separately since its shape depends on the chosen
// backend type.
func (b Binding) CacheConfig(name string) (cfg cache.Config, backendType string, backendConfig map[string]string) {
	base := b.Prefix + ".client.cache." + name
	cfg = cache.Config{
		Name:       name,
		Enabled:    b.Props.Bool(base+".enabled", "", true),
		PutEnabled: b.Props.Bool(base+".putEnabled", "", true),
		DefaultTTL: b.Props.Duration(base+".defaultTTL", "", 0),
		MaxTTL:     b.Props.Duration(base+".maxTTL", "", 0),
	}
	backendType = b.Props.String(base+".type", "", "memory")
	backendConfig = KV(b.Props.String(base+".config", "", ""))
	return cfg, backendType, backendConfig
}

var _ engine.PolicyResolver = Binding{}
