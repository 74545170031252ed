package fractal

import (
	"errors"
	"sync"
	"testing"

	"github.com/marben/dist_brot/colouring"
)

func cacheTestSpec(alg Algorithm) TileSpec {
	return NewTileSpecRaw(Pt(0, -0.5), Pt(-1, 2), Dimensions{Width: 200, Height: 400}, NewAlgorithmSpec(alg, 32, colouring.LinearRainbow))
}

// smallSpec returns a cheap, distinct spec for each n.
func smallSpec(n int) TileSpec {
	return NewTileSpecRaw(Pt(Scalar(n), 0), Pt(1, 1), Dimensions{Width: 2, Height: 2}, NewAlgorithmSpec(Zero, 4, colouring.White))
}

func TestCacheDeclinesUnplottedTile(t *testing.T) {
	c := NewTileCache(10)
	c.Insert(NewTile(cacheTestSpec(Original)))
	if !c.IsEmpty() {
		t.Fatalf("cache holds %d tiles, want 0", c.Len())
	}

	partial := NewTile(cacheTestSpec(Original))
	partial.PlotTo(16)
	c.Insert(partial)
	if !c.IsEmpty() {
		t.Fatalf("cache accepted a partially plotted tile")
	}
}

func TestCacheDistinguishesAlgorithms(t *testing.T) {
	c := NewTileCache(10)
	m2 := plotted(cacheTestSpec(Original))
	m3 := plotted(cacheTestSpec(Mandel3))
	c.Insert(m2)
	c.Insert(m3)
	if c.Len() != 2 {
		t.Fatalf("Len = %d, want 2", c.Len())
	}

	got, ok := c.Get(cacheTestSpec(Original))
	if !ok || got != m2 {
		t.Error("Original lookup did not return the Original tile")
	}
	got, ok = c.Get(cacheTestSpec(Mandel3))
	if !ok || got != m3 {
		t.Error("Mandel3 lookup did not return the Mandel3 tile")
	}
}

func TestCacheIgnoresColourerAndOffset(t *testing.T) {
	c := NewTileCache(10)
	tile := plotted(smallSpec(1))
	c.Insert(tile)

	recoloured := NewTileSpecRaw(Pt(1, 0), Pt(1, 1), Dimensions{Width: 2, Height: 2}, NewAlgorithmSpec(Zero, 4, colouring.Mandy)).WithYOffset(8)
	if got, ok := c.Get(recoloured); !ok || got != tile {
		t.Error("lookup with another colourer and offset missed")
	}

	c.Insert(plotted(recoloured))
	if c.Len() != 1 {
		t.Errorf("equivalent insert grew the cache to %d", c.Len())
	}
}

func TestCacheCapacity(t *testing.T) {
	c := NewTileCache(4)
	for i := range 10 {
		c.Insert(plotted(smallSpec(i)))
		if c.Len() > c.Capacity() {
			t.Fatalf("Len %d exceeds capacity %d", c.Len(), c.Capacity())
		}
	}
	if c.Len() != 4 {
		t.Errorf("Len = %d, want 4", c.Len())
	}
	if st := c.Stats(); st.Evictions != 6 {
		t.Errorf("evictions = %d, want 6", st.Evictions)
	}
	if _, ok := c.Peek(smallSpec(0)); ok {
		t.Error("oldest tile survived")
	}
	if _, ok := c.Peek(smallSpec(9)); !ok {
		t.Error("newest tile was evicted")
	}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewTileCache(2)
	c.Insert(plotted(smallSpec(1)))
	c.Insert(plotted(smallSpec(2)))
	if _, ok := c.Get(smallSpec(1)); !ok {
		t.Fatal("miss on fresh entry")
	}
	c.Insert(plotted(smallSpec(3)))

	if _, ok := c.Peek(smallSpec(2)); ok {
		t.Error("least recently used entry survived")
	}
	if _, ok := c.Peek(smallSpec(1)); !ok {
		t.Error("recently used entry was evicted")
	}
}

func TestCacheCapacityRounding(t *testing.T) {
	for _, n := range []int{-1, 0, 1, 31, 64, 100, 1000, 1 << 16} {
		c := NewTileCache(n)
		if want := max(n, 1); c.Capacity() != want {
			t.Errorf("NewTileCache(%d).Capacity() = %d, want %d", n, c.Capacity(), want)
		}
	}
}

func TestCachePeekGetRemove(t *testing.T) {
	c := NewTileCache(10)
	tile := plotted(smallSpec(1))
	c.Insert(tile)

	if got, ok := c.Peek(smallSpec(1)); !ok || got != tile {
		t.Error("Peek missed")
	}
	if st := c.Stats(); st.Hits != 0 || st.Misses != 0 {
		t.Errorf("Peek touched the counters: %+v", st)
	}

	c.Get(smallSpec(1))
	c.Get(smallSpec(2))
	st := c.Stats()
	if st.Hits != 1 || st.Misses != 1 || st.HitRate != 0.5 {
		t.Errorf("stats = %+v", st)
	}

	if got, ok := c.Remove(smallSpec(1)); !ok || got != tile {
		t.Error("Remove did not return the tile")
	}
	if _, ok := c.Remove(smallSpec(1)); ok {
		t.Error("second Remove found the tile")
	}
	if !c.IsEmpty() {
		t.Error("cache not empty after Remove")
	}
}

func TestCacheReplace(t *testing.T) {
	c := NewTileCache(1)
	a, b := plotted(smallSpec(1)), plotted(smallSpec(2))
	if err := c.Replace(smallSpec(1), a, true); err != nil {
		t.Fatalf("soft replace into empty cache: %v", err)
	}
	if err := c.Replace(smallSpec(2), b, true); !errors.Is(err, ErrCacheFull) {
		t.Errorf("soft replace into full cache: err = %v, want ErrCacheFull", err)
	}

	a2 := plotted(smallSpec(1))
	if err := c.Replace(smallSpec(1), a2, true); err != nil {
		t.Errorf("soft replace of existing entry: %v", err)
	}
	if got, _ := c.Peek(smallSpec(1)); got != a2 {
		t.Error("replace did not swap the tile")
	}

	if err := c.Replace(smallSpec(2), b, false); err != nil {
		t.Errorf("hard replace: %v", err)
	}
	if _, ok := c.Peek(smallSpec(1)); ok {
		t.Error("hard replace did not evict")
	}

	if err := c.Replace(smallSpec(3), NewTile(smallSpec(3)), false); !errors.Is(err, ErrIncompleteTile) {
		t.Errorf("incomplete tile: err = %v", err)
	}
	if err := c.Replace(smallSpec(3), b, false); err == nil {
		t.Error("replace accepted a tile for another spec")
	}
}

func TestCacheClear(t *testing.T) {
	c := NewTileCache(100)
	for i := range 20 {
		c.Insert(plotted(smallSpec(i)))
	}
	c.Clear()
	if !c.IsEmpty() {
		t.Errorf("Len = %d after Clear", c.Len())
	}
	c.Insert(plotted(smallSpec(1)))
	if c.Len() != 1 {
		t.Errorf("Len = %d after Clear and Insert", c.Len())
	}
}

func TestCacheConcurrentUse(t *testing.T) {
	c := NewTileCache(64)
	tiles := make([]*Tile, 200)
	for i := range tiles {
		tiles[i] = plotted(smallSpec(i))
	}

	var wg sync.WaitGroup
	for g := range 8 {
		wg.Go(func() {
			for i := range tiles {
				n := (i + g*25) % len(tiles)
				c.Insert(tiles[n])
				if got, ok := c.Get(smallSpec(n)); ok && !got.Spec().Equivalent(smallSpec(n)) {
					t.Errorf("lookup for %d returned %s", n, got.Spec())
				}
				if n%7 == 0 {
					c.Remove(smallSpec(n))
				}
			}
		})
	}
	wg.Wait()

	if c.Len() > c.Capacity() {
		t.Errorf("Len %d exceeds capacity %d", c.Len(), c.Capacity())
	}
}
