package cache

import (
	"context"
	"strconv"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/wardgate/wardgate/internal/domain/permission"
)

const defaultMemoryCacheSize = 10000

// MemoryCheckCache is a process-local LRU with per-entry expiry. Keys carry the role's
// generation; invalidating a role bumps it, and the superseded entries age out of the LRU.
type MemoryCheckCache struct {
	lru *expirable.LRU[string, permission.CachedCheck]

	mu          sync.RWMutex
	generations map[uint]uint64
}

// NewMemoryCheckCache creates an LRU holding at most size results for ttl each.
// A ttl of zero keeps entries until evicted.
func NewMemoryCheckCache(size int, ttl time.Duration) *MemoryCheckCache {
	if size <= 0 {
		size = defaultMemoryCacheSize
	}
	return &MemoryCheckCache{
		lru:         expirable.NewLRU[string, permission.CachedCheck](size, nil, ttl),
		generations: make(map[uint]uint64),
	}
}

func (c *MemoryCheckCache) key(roleID uint, code string) string {
	c.mu.RLock()
	gen := c.generations[roleID]
	c.mu.RUnlock()
	return strconv.FormatUint(uint64(roleID), 10) + "|" + strconv.FormatUint(gen, 10) + "|" + code
}

func (c *MemoryCheckCache) Get(_ context.Context, roleID uint, code string) (*permission.CachedCheck, bool) {
	entry, ok := c.lru.Get(c.key(roleID, code))
	if !ok {
		return nil, false
	}
	return &entry, true
}

func (c *MemoryCheckCache) Set(_ context.Context, roleID uint, code string, entry *permission.CachedCheck) {
	if entry == nil {
		return
	}
	c.lru.Add(c.key(roleID, code), *entry)
}

func (c *MemoryCheckCache) InvalidateRole(_ context.Context, roleID uint) {
	c.mu.Lock()
	c.generations[roleID]++
	c.mu.Unlock()
}

// Len returns the number of stored entries, superseded ones included until evicted.
func (c *MemoryCheckCache) Len() int {
	return c.lru.Len()
}
