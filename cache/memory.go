package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"
)

// MemoryBackend is an unbounded in-memory Backend with no eviction beyond
// TTL expiry. It is the simplest of the built-in backends.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]*memEntry
	now     func() time.Time
}

type memEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryBackend creates a new in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{
		entries: make(map[string]*memEntry),
		now:     time.Now,
	}
}

// Get retrieves a value. ok is false on miss or expiry.
func (c *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
		return nil, false
	}

	return entry.value, true
}

// Set stores a value with the given TTL. ttl<=0 stores the value with no
// expiry, matching this backend's no-eviction contract.
func (c *MemoryBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	c.mu.Lock()
	c.entries[key] = &memEntry{
		value:     value,
		expiresAt: expiresAt,
	}
	c.mu.Unlock()

	return nil
}

// Delete removes a value. Idempotent.
func (c *MemoryBackend) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

// Purge removes every entry.
func (c *MemoryBackend) Purge(_ context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]*memEntry)
	c.mu.Unlock()
	return nil
}

// Dump lists every live key, one per line, for diagnostics.
func (c *MemoryBackend) Dump(_ context.Context) string {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return fmt.Sprintf("memory backend: %d entries\n%s", len(keys), strings.Join(keys, "\n"))
}

var _ Backend = (*MemoryBackend)(nil)
