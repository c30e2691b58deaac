package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength is the maximum allowed length for a cache key.
const MaxKeyLength = 512

// Sentinel errors for cache operations.
var (
	ErrNilBackend = errors.New("cache: backing store is nil")
	ErrInvalidKey = errors.New("cache: key is invalid")
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// ValidateKey checks if a key is valid for caching.
func ValidateKey(key string) error {
	if key == "" || strings.TrimSpace(key) == "" {
		return ErrInvalidKey
	}
	if len(key) > MaxKeyLength {
		return ErrKeyTooLong
	}
	// Reject keys with newlines or carriage returns
	if strings.ContainsAny(key, "\n\r") {
		return ErrInvalidKey
	}
	return nil
}

// Outcome is the sum type returned by Get: a lookup is either an absent
// Miss (no entry, or the backend's own TTL/eviction dropped it) or a
// Present value. A GetHook may additionally veto a raw hit, turning it
// into a Miss — the two "absent" causes are distinguishable from the
// caller's perspective only in that a Miss never carries a value while
// Present always does, even when that value is an empty byte slice.
type Outcome struct {
	present bool
	value   []byte
}

// Present wraps v as a cache hit.
func Present(v []byte) Outcome { return Outcome{present: true, value: v} }

// Miss is the absent outcome.
var Miss = Outcome{present: false}

// Found reports whether this Outcome is a hit.
func (o Outcome) Found() bool { return o.present }

// Value returns the cached bytes. Only meaningful when Found() is true.
func (o Outcome) Value() []byte { return o.value }

// Backend is the storage contract a Cache binds to. Implementations must
// be safe for concurrent use and must never error out of Get — a lookup
// failure degrades to Miss.
type Backend interface {
	// Get retrieves a raw value. ok is false on miss or expiry.
	Get(ctx context.Context, key string) (value []byte, ok bool)

	// Set stores a value with the given TTL. ttl<=0 means store without
	// expiry (the backend's own eviction policy, if any, still applies).
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a value. Idempotent — no error on miss.
	Delete(ctx context.Context, key string) error

	// Purge removes every entry.
	Purge(ctx context.Context) error
}

// GetHook transforms a raw stored value into the client-visible Outcome,
// and may veto a hit by returning Miss. A panic or non-nil error from
// the hook degrades to Miss rather than propagating.
type GetHook func(raw []byte) (Outcome, error)

// PutHook inspects or transforms a value before it is stored. Returning
// ok=false skips the store silently. The hook runs first and the
// backend's PutEnabled flag is checked second.
type PutHook func(value []byte) (transformed []byte, ok bool)

// Config is the identity and policy of one named Cache.
type Config struct {
	// Name is the process-wide unique identity of this cache.
	Name string

	// Enabled gates Get entirely; when false, Get always reports Miss.
	Enabled bool

	// PutEnabled gates Set; when false, Put is a silent no-op. Distributed
	// caches default this to false because the server is assumed
	// authoritative.
	PutEnabled bool

	// DefaultTTL is applied when a caller does not specify one.
	DefaultTTL time.Duration

	// MaxTTL clamps any effective TTL. Zero means unbounded.
	MaxTTL time.Duration

	GetHook GetHook
	PutHook PutHook
}

// EffectiveTTL applies DefaultTTL/MaxTTL: a non-positive override falls
// back to DefaultTTL, then the result is clamped to MaxTTL if set.
func (c Config) EffectiveTTL(override time.Duration) time.Duration {
	ttl := override
	if ttl <= 0 {
		ttl = c.DefaultTTL
	}
	if c.MaxTTL > 0 && ttl > c.MaxTTL {
		ttl = c.MaxTTL
	}
	return ttl
}

// Cache is the public CommandCache surface.
type Cache struct {
	cfg     Config
	backend Backend
}

// New binds a Config to a Backend.
func New(cfg Config, backend Backend) *Cache {
	return &Cache{cfg: cfg, backend: backend}
}

// Name returns the cache's process-wide identity.
func (c *Cache) Name() string { return c.cfg.Name }

// Config returns the cache's configuration.
func (c *Cache) Config() Config { return c.cfg }

// Get performs a read-through lookup. It never errors: backend failures,
// disabled caches, and hook vetoes all collapse to Miss.
func (c *Cache) Get(ctx context.Context, key string) Outcome {
	if !c.cfg.Enabled || c.backend == nil {
		return Miss
	}
	if err := ValidateKey(key); err != nil {
		return Miss
	}

	raw, ok := c.backend.Get(ctx, key)
	if !ok {
		return Miss
	}

	if c.cfg.GetHook == nil {
		return Present(raw)
	}

	out, err := safeGetHook(c.cfg.GetHook, raw)
	if err != nil {
		return Miss
	}
	return out
}

func safeGetHook(hook GetHook, raw []byte) (out Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, err = Miss, ErrNilBackend
		}
	}()
	return hook(raw)
}

// Put stores value under key, honoring PutEnabled and any PutHook. A
// backend error never propagates — it is swallowed and reported via the
// returned bool so the caller may log it, but the producing command's
// own success is never masked.
func (c *Cache) Put(ctx context.Context, key string, value []byte, ttlOverride time.Duration) bool {
	if c.backend == nil {
		return false
	}
	if err := ValidateKey(key); err != nil {
		return false
	}

	toStore := value
	if c.cfg.PutHook != nil {
		transformed, ok, err := safePutHook(c.cfg.PutHook, value)
		if err != nil || !ok {
			return false
		}
		toStore = transformed
	}

	// Hook runs first; the enablement flag gates the store second.
	if !c.cfg.PutEnabled {
		return false
	}

	// ttl<=0 here (no override, no DefaultTTL) means store without
	// expiry, not skip the store: a no-eviction backend like
	// MemoryBackend is expected to hold the value indefinitely.
	ttl := c.cfg.EffectiveTTL(ttlOverride)

	if err := c.backend.Set(ctx, key, toStore, ttl); err != nil {
		return false
	}
	return true
}

func safePutHook(hook PutHook, value []byte) (out []byte, ok bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			out, ok, err = nil, false, ErrNilBackend
		}
	}()
	v, k := hook(value)
	return v, k, nil
}

// Delete removes a single entry. Idempotent.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if c.backend == nil {
		return ErrNilBackend
	}
	return c.backend.Delete(ctx, key)
}

// Empty purges every entry in the cache.
func (c *Cache) Empty(ctx context.Context) error {
	if c.backend == nil {
		return ErrNilBackend
	}
	return c.backend.Purge(ctx)
}

// dumper is implemented by backends that support a diagnostic dump.
type dumper interface {
	Dump(ctx context.Context) string
}

// dumpMaxLen bounds Dump's output so a misbehaving backend can never
// flood logs.
const dumpMaxLen = 4096

// Dump is a best-effort diagnostic string representation of the cache,
// truncated past dumpMaxLen.
func (c *Cache) Dump(ctx context.Context) string {
	d, ok := c.backend.(dumper)
	if !ok {
		return "(backend does not support dump)"
	}
	s := d.Dump(ctx)
	if len(s) > dumpMaxLen {
		return s[:dumpMaxLen] + "...(truncated)"
	}
	return s
}
