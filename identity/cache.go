package identity

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

var MemoryCacheSize = 100

// Cache stores identities by a caller chosen key, e.g. a key pair alias.
type Cache interface {
	Get(ctx context.Context, key string) (Identity, bool, error)
	Put(ctx context.Context, key string, id Identity) error
}

type MemoryCache struct {
	data *lru.Cache[string, Identity]
}

func (m *MemoryCache) Get(ctx context.Context, key string) (Identity, bool, error) {
	id, ok := m.data.Get(key)
	return id, ok, nil
}

func (m *MemoryCache) Put(ctx context.Context, key string, id Identity) error {
	m.data.Add(key, id)
	return nil
}

var _ Cache = (*MemoryCache)(nil)

// NewMemoryCache creates a new in memory LRU cache for identities. The size
// parameter controls the maximum number of identities that can be cached.
// Pass a value less than 1 to use the default cache size [MemoryCacheSize].
func NewMemoryCache(size int) (*MemoryCache, error) {
	if size <= 0 {
		size = MemoryCacheSize
	}
	cache, err := lru.New[string, Identity](size)
	if err != nil {
		return nil, fmt.Errorf("creating identity LRU: %w", err)
	}
	return &MemoryCache{data: cache}, nil
}
