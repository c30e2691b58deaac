// Package cache implements the CommandCache component of the command
// execution engine: a named, read-through cache with pluggable backing
// stores and optional value-translation hooks.
//
// # Ecosystem Position
//
// cache sits inside the retry loop of the engine, ahead of the remote
// callback: a cache hit short-circuits the attempt entirely; a miss
// falls through to the provider/callback, and the result is stored on
// success only.
//
//	┌─────────────────────────────────────────────────────────────────┐
//	│                    Command Retry Loop (per attempt)              │
//	├─────────────────────────────────────────────────────────────────┤
//	│                                                                 │
//	│   engine            cache                 provider/callback     │
//	│   ┌──────┐        ┌─────────┐            ┌───────────────┐     │
//	│   │attempt│───────▶│  Get    │──hit──────▶│ (skip, return)│     │
//	│   │ loop  │        │         │            └───────────────┘     │
//	│   └──────┘         │ ┌─────┐ │   miss                           │
//	│                    │ │Hooks│ │     │                            │
//	│                    │ └─────┘ │     ▼                            │
//	│                    └─────────┘  resolve + invoke callback        │
//	│                         ▲              │                         │
//	│                         └──────Put─────┘  (only on success)      │
//	│                                                                 │
//	└─────────────────────────────────────────────────────────────────┘
//
// # Core Components
//
//   - [Cache]: read-through cache bound to one [Backend] and one [Config]
//   - [Outcome]: the Miss/Present sum type returned by [Cache.Get]
//   - [Backend]: storage contract; built-ins are [MemoryBackend] (no
//     eviction), [TTLBackend] (size-bounded + LRU-on-access), and
//     [DistributedBackend] (contract-only adapter over an external client)
//   - [Registry]: process-wide named-cache registry (first reference creates)
//   - [Keyer]: optional deterministic key derivation for callers that
//     don't want to hand-roll a cache key
//
// # Quick Start
//
//	backend := cache.NewTTLBackend(10_000)
//	c := cache.New(cache.Config{
//	    Name:       "inventory-lookup",
//	    Enabled:    true,
//	    PutEnabled: true,
//	    DefaultTTL: 5 * time.Minute,
//	}, backend)
//
//	if out := c.Get(ctx, key); out.Found() {
//	    return out.Value(), nil
//	}
//	result, err := callRemote(ctx)
//	if err == nil {
//	    c.Put(ctx, key, result, 0)
//	}
//
// # Hook Semantics
//
// GetHook(raw) -> (Outcome, error) lets callers map storage-form to
// client-form and veto hits; PutHook(value) -> (transformed, ok) skips
// the store silently when ok is false. PutHook always runs before the
// PutEnabled gate is checked. Both hooks degrade to a no-op
// (Miss, or skip-store) rather than propagating a panic or error.
//
// # Error Handling
//
// Cache.Get never errors — backend failures, a disabled cache, and hook
// vetoes all collapse to Miss. Cache.Put never errors either; it reports
// success as a bool so a failed store can be logged without masking the
// producing call's own success.
//
//   - [ErrNilBackend]: no Backend is bound
//   - [ErrInvalidKey]: key is empty, whitespace-only, or contains newlines
//   - [ErrKeyTooLong]: key exceeds MaxKeyLength (512 characters)
package cache
