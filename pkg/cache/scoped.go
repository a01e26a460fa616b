package cache

import (
	"context"
	"time"
)

// Scoped wraps a Cache so that every key is prefixed with scope. Entries
// written through one scope are never visible through another, which keeps
// responses fetched with different credentials apart in a shared store.
//
// An empty scope returns c unchanged.
//
//	private := cache.Scoped(shared, "auth:3f2a9c:")
func Scoped(c Cache, scope string) Cache {
	if scope == "" {
		return c
	}
	return &scopedCache{inner: c, scope: scope}
}

type scopedCache struct {
	inner Cache
	scope string
}

func (s *scopedCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	return s.inner.Get(ctx, s.scope+key)
}

func (s *scopedCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return s.inner.Set(ctx, s.scope+key, data, ttl)
}

func (s *scopedCache) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, s.scope+key)
}

// Close is a no-op; the wrapped cache is owned by whoever created it.
func (s *scopedCache) Close() error { return nil }
