package cache

import (
	"container/list"
	"context"
	"fmt"
	"sync"
	"time"
)

// TTLBackend is a size-bounded Backend with eviction on access recency
// (LRU): every Get promotes the entry to the front of the list, and Set
// evicts from the back once MaxEntries is exceeded. Entries also expire
// by TTL independent of size pressure.
type TTLBackend struct {
	maxEntries int

	mu    sync.Mutex
	ll    *list.List
	items map[string]*list.Element
	now   func() time.Time
}

type ttlEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewTTLBackend creates a backend bounded to maxEntries. A non-positive
// maxEntries disables the size bound (TTL-only expiry).
func NewTTLBackend(maxEntries int) *TTLBackend {
	return &TTLBackend{
		maxEntries: maxEntries,
		ll:         list.New(),
		items:      make(map[string]*list.Element),
		now:        time.Now,
	}
}

// Get retrieves a value and promotes it to most-recently-used.
func (c *TTLBackend) Get(_ context.Context, key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}

	entry := el.Value.(*ttlEntry)
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.removeElementLocked(el)
		return nil, false
	}

	c.ll.MoveToFront(el)
	return entry.value, true
}

// Set stores a value, evicting the least-recently-used entry if the
// backend is at capacity. ttl<=0 stores the value with no expiry; it is
// still subject to LRU eviction once maxEntries is exceeded.
func (c *TTLBackend) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = c.now().Add(ttl)
	}

	if el, ok := c.items[key]; ok {
		entry := el.Value.(*ttlEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		c.ll.MoveToFront(el)
		return nil
	}

	el := c.ll.PushFront(&ttlEntry{key: key, value: value, expiresAt: expiresAt})
	c.items[key] = el

	if c.maxEntries > 0 {
		for c.ll.Len() > c.maxEntries {
			back := c.ll.Back()
			if back == nil {
				break
			}
			c.removeElementLocked(back)
		}
	}

	return nil
}

// Delete removes a single entry. Idempotent.
func (c *TTLBackend) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.removeElementLocked(el)
	}
	return nil
}

// Purge removes every entry.
func (c *TTLBackend) Purge(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ll = list.New()
	c.items = make(map[string]*list.Element)
	return nil
}

// Dump reports size and capacity for diagnostics.
func (c *TTLBackend) Dump(_ context.Context) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return fmt.Sprintf("ttl backend: %d/%d entries", c.ll.Len(), c.maxEntries)
}

func (c *TTLBackend) removeElementLocked(el *list.Element) {
	entry := el.Value.(*ttlEntry)
	delete(c.items, entry.key)
	c.ll.Remove(el)
}

var _ Backend = (*TTLBackend)(nil)
