package fractal

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

const (
	// maxShards bounds lock striping. Must be a power of two.
	maxShards = 16
	// minShardCapacity keeps small caches in a single shard so that
	// eviction stays close to true LRU.
	minShardCapacity = 32
)

// ErrCacheFull is returned by a soft Replace that would have to evict.
var ErrCacheFull = errors.New("tile cache full")

// ErrIncompleteTile is returned when asked to store a tile that was not
// plotted to its requested iteration limit.
var ErrIncompleteTile = errors.New("tile not fully plotted")

// TileCache maps TileSpecs to fully plotted, shared, read-only Tiles.
//
// Eviction is approximate LRU: each shard evicts its own least recently
// used entry. The only hard guarantee is that Len never exceeds Capacity.
// TileCache is safe for concurrent use; a tile becomes visible only after
// it has been completely plotted.
type TileCache struct {
	shards   []*cacheShard
	mask     uint64
	capacity int

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheShard struct {
	mu       sync.RWMutex
	entries  map[CacheKey]*cacheEntry
	lru      lruList
	capacity int
}

type cacheEntry struct {
	tile *Tile
	node *lruNode
}

// CacheStats is a snapshot of cache counters.
type CacheStats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// NewTileCache creates a cache holding at most capacity tiles.
// A capacity below 1 is treated as 1.
func NewTileCache(capacity int) *TileCache {
	capacity = max(capacity, 1)

	n := 1
	for n < maxShards && capacity/(n*2) >= minShardCapacity {
		n *= 2
	}

	c := &TileCache{
		shards:   make([]*cacheShard, n),
		mask:     uint64(n - 1),
		capacity: 0,
	}
	// Spread the capacity so the shards sum to exactly capacity.
	for i := range c.shards {
		shardCap := capacity / n
		if i < capacity%n {
			shardCap++
		}
		c.shards[i] = &cacheShard{
			entries:  make(map[CacheKey]*cacheEntry),
			capacity: shardCap,
		}
		c.capacity += shardCap
	}
	return c
}

func (c *TileCache) shard(key CacheKey) *cacheShard {
	return c.shards[key.Hash()&c.mask]
}

// Insert stores a fully plotted tile under its own spec. Tiles that were
// not plotted to their requested limit are silently declined.
// Re-inserting an equivalent spec replaces the stored tile.
func (c *TileCache) Insert(t *Tile) {
	if !t.IsComplete() {
		Logger().Warn("tile cache declined partial tile", "spec", t.spec, "plotted", t.maxIterPlotted)
		return
	}
	key := t.spec.CacheKey()
	s := c.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.tile = t
		s.lru.MoveToFront(e.node)
		return
	}
	c.evictFor(s)
	s.entries[key] = &cacheEntry{tile: t, node: s.lru.PushFront(key)}
}

// evictFor makes room for one more entry. Caller holds s.mu.
func (c *TileCache) evictFor(s *cacheShard) {
	for s.lru.Len() >= s.capacity {
		oldest, ok := s.lru.RemoveOldest()
		if !ok {
			break
		}
		delete(s.entries, oldest)
		c.evictions.Add(1)
	}
}

// Get looks up the tile for spec and marks it recently used.
func (c *TileCache) Get(spec TileSpec) (*Tile, bool) {
	key := spec.CacheKey()
	s := c.shard(key)

	s.mu.Lock()
	e, ok := s.entries[key]
	if ok {
		s.lru.MoveToFront(e.node)
	}
	s.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		return nil, false
	}
	c.hits.Add(1)
	return e.tile, true
}

// Peek looks up the tile for spec without touching its recency.
func (c *TileCache) Peek(spec TileSpec) (*Tile, bool) {
	key := spec.CacheKey()
	s := c.shard(key)

	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	return e.tile, true
}

// Remove deletes the entry for spec, returning the tile it held.
func (c *TileCache) Remove(spec TileSpec) (*Tile, bool) {
	key := spec.CacheKey()
	s := c.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[key]
	if !ok {
		return nil, false
	}
	s.lru.Remove(e.node)
	delete(s.entries, key)
	return e.tile, true
}

// Replace stores t under spec, whether or not spec is already present.
// With soft set, Replace fails with ErrCacheFull rather than evict
// another entry to make room. t must be fully plotted and equivalent to spec.
func (c *TileCache) Replace(spec TileSpec, t *Tile, soft bool) error {
	if !t.IsComplete() {
		return fmt.Errorf("replace %s: %w", spec, ErrIncompleteTile)
	}
	if !spec.Equivalent(t.spec) {
		return fmt.Errorf("replace %s: tile is for %s", spec, t.spec)
	}
	key := spec.CacheKey()
	s := c.shard(key)

	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.tile = t
		s.lru.MoveToFront(e.node)
		return nil
	}
	if soft && s.lru.Len() >= s.capacity {
		return fmt.Errorf("replace %s: %w", spec, ErrCacheFull)
	}
	c.evictFor(s)
	s.entries[key] = &cacheEntry{tile: t, node: s.lru.PushFront(key)}
	return nil
}

// Clear empties the cache.
func (c *TileCache) Clear() {
	for _, s := range c.shards {
		s.mu.Lock()
		clear(s.entries)
		s.lru.Clear()
		s.mu.Unlock()
	}
}

// Len returns the number of cached tiles.
func (c *TileCache) Len() int {
	total := 0
	for _, s := range c.shards {
		s.mu.RLock()
		total += len(s.entries)
		s.mu.RUnlock()
	}
	return total
}

// IsEmpty reports whether the cache holds nothing.
func (c *TileCache) IsEmpty() bool { return c.Len() == 0 }

// Capacity is the maximum number of tiles held.
func (c *TileCache) Capacity() int { return c.capacity }

// Stats returns current counters.
func (c *TileCache) Stats() CacheStats {
	hits, misses := c.hits.Load(), c.misses.Load()
	var rate float64
	if total := hits + misses; total > 0 {
		rate = float64(hits) / float64(total)
	}
	return CacheStats{
		Len:       c.Len(),
		Capacity:  c.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: c.evictions.Load(),
		HitRate:   rate,
	}
}
