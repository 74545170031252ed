// Package plot computes whole plots locally: it splits a spec into strips,
// plots them on a bounded pool of goroutines and reassembles the result.
package plot

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/marben/dist_brot/fractal"
)

// DefaultRowHeight is the strip height used when splitting a plot.
const DefaultRowHeight = 50

// Engine plots tiles in parallel, optionally through a shared TileCache.
// An Engine is safe for concurrent use.
type Engine struct {
	cache     *fractal.TileCache
	workers   int
	rowHeight uint32
}

// Option configures an Engine.
type Option func(*Engine)

// WithCache shares c between plots. Complete strips are inserted into it
// and looked up before plotting.
func WithCache(c *fractal.TileCache) Option {
	return func(e *Engine) { e.cache = c }
}

// WithWorkers bounds the number of strips plotted at once.
// Values below 1 mean GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(e *Engine) { e.workers = n }
}

// WithRowHeight sets the strip height. 0 plots the whole spec as one tile.
func WithRowHeight(h uint32) Option {
	return func(e *Engine) { e.rowHeight = h }
}

// New returns an Engine.
func New(opts ...Option) *Engine {
	e := &Engine{rowHeight: DefaultRowHeight}
	for _, o := range opts {
		o(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// Cache returns the engine's cache, or nil.
func (e *Engine) Cache() *fractal.TileCache { return e.cache }

// Timings records how long each phase of a plot took.
type Timings struct {
	Split, Plot, Join time.Duration
}

// Result is a finished plot.
type Result struct {
	// Tile is the whole plot, joined from its strips.
	Tile *fractal.Tile
	// Strips are the plotted strips ordered by y offset. A plot that was
	// not split has the single tile here.
	Strips  []*fractal.Tile
	Timings Timings
}

// Plot computes spec in full. On cancellation every result is discarded;
// strips already in progress run to completion first.
func (e *Engine) Plot(ctx context.Context, spec fractal.TileSpec) (*Result, error) {
	t0 := time.Now()
	strips := []fractal.TileSpec{spec}
	if e.rowHeight > 0 {
		var err error
		if strips, err = spec.Split(e.rowHeight); err != nil {
			return nil, fmt.Errorf("split: %w", err)
		}
	}
	t1 := time.Now()

	tiles, err := e.PlotStrips(ctx, strips)
	if err != nil {
		return nil, err
	}
	t2 := time.Now()

	whole := tiles[0]
	if e.rowHeight > 0 {
		if whole, err = fractal.JoinTiles(spec, tiles); err != nil {
			return nil, fmt.Errorf("join: %w", err)
		}
	}
	t3 := time.Now()

	fractal.Logger().Info("plot complete", "spec", spec, "strips", len(tiles), "elapsed", t3.Sub(t0))
	return &Result{
		Tile:    whole,
		Strips:  tiles,
		Timings: Timings{Split: t1.Sub(t0), Plot: t2.Sub(t1), Join: t3.Sub(t2)},
	}, nil
}

// PlotStrips plots each spec as its own tile and returns them in the
// order given.
func (e *Engine) PlotStrips(ctx context.Context, specs []fractal.TileSpec) ([]*fractal.Tile, error) {
	tiles := make([]*fractal.Tile, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, s := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			t, err := e.PlotTile(s)
			if err != nil {
				return err
			}
			tiles[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("plot strips: %w", err)
	}
	return tiles, nil
}

// PlotTile returns a fully plotted tile for spec, from the cache if it
// has an equivalent one.
func (e *Engine) PlotTile(spec fractal.TileSpec) (*fractal.Tile, error) {
	if e.cache != nil {
		if cached, ok := e.cache.Get(spec); ok {
			fractal.Logger().Debug("tile cache hit", "spec", spec)
			return cached.WithSpec(spec)
		}
	}
	t := fractal.NewTile(spec)
	t.Plot()
	if e.cache != nil {
		e.cache.Insert(t)
	}
	return t, nil
}
