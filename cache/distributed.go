package cache

import (
	"context"
	"time"
)

// DistributedBackend is a contract-only adapter over an externally owned
// distributed cache (Redis, memcached, ...). The concrete transport is
// an external collaborator; callers inject their own client
// via Remote. Nothing in this module turns PutEnabled off for these
// backends: New does not touch it, and config.Binding.CacheConfig reads
// "putEnabled" with a default of true whatever the backend type.
type DistributedBackend struct {
	// Remote is the caller-supplied client satisfying the Backend shape.
	// It is invoked directly; DistributedBackend adds no caching logic of
	// its own, only the Name used for diagnostics.
	Remote Backend
	Name   string
}

func NewDistributedBackend(name string, remote Backend) *DistributedBackend {
	return &DistributedBackend{Remote: remote, Name: name}
}

func (d *DistributedBackend) Get(ctx context.Context, key string) ([]byte, bool) {
	if d.Remote == nil {
		return nil, false
	}
	return d.Remote.Get(ctx, key)
}

func (d *DistributedBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if d.Remote == nil {
		return ErrNilBackend
	}
	return d.Remote.Set(ctx, key, value, ttl)
}

func (d *DistributedBackend) Delete(ctx context.Context, key string) error {
	if d.Remote == nil {
		return ErrNilBackend
	}
	return d.Remote.Delete(ctx, key)
}

func (d *DistributedBackend) Purge(ctx context.Context) error {
	if d.Remote == nil {
		return ErrNilBackend
	}
	return d.Remote.Purge(ctx)
}

func (d *DistributedBackend) Dump(ctx context.Context) string {
	return "distributed backend " + d.Name + " (diagnostics delegated to remote client)"
}

var _ Backend = (*DistributedBackend)(nil)
