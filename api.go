// Package brot holds what the coordinator and its workers share: the
// messages exchanged over a worker connection and the named regions.
//
// A worker dials the coordinator's websocket endpoint and sends a Hello as
// a JSON text message. After that the connection carries irpc binary
// messages: the worker serves Plotter and the coordinator calls it.
package brot

//go:generate go run github.com/marben/irpc/cmd/irpc

import (
	"context"
	"errors"
	"fmt"

	"github.com/marben/dist_brot/colouring"
	"github.com/marben/dist_brot/fractal"
)

// ProtocolVersion is bumped whenever the messages below change shape.
const ProtocolVersion = 2

// Plotter computes strips. Workers serve it over irpc; the coordinator
// holds a PlotterIrpcClient for each connected worker.
type Plotter interface {
	PlotStrip(ctx context.Context, req StripRequest) (StripResult, error)
}

// Hello introduces a worker to the coordinator.
type Hello struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
	Cores   int    `json:"cores"`
}

// StripRequest asks a worker to plot one strip of a job.
type StripRequest struct {
	Job       uint64
	Algorithm string
	MaxIter   uint32
	Origin    fractal.Point
	Axes      fractal.Point
	Width     uint32
	Height    uint32
	YOffset   uint32
}

// NewStripRequest describes strip, which must carry its y offset, as part
// of job.
func NewStripRequest(job uint64, strip fractal.TileSpec) StripRequest {
	off, _ := strip.YOffset()
	return StripRequest{
		Job:       job,
		Algorithm: strip.Algorithm().String(),
		MaxIter:   strip.MaxIterRequested(),
		Origin:    strip.Origin(),
		Axes:      strip.Axes(),
		Width:     strip.Width(),
		Height:    strip.Height(),
		YOffset:   off,
	}
}

// TileSpec rebuilds the strip's spec. Colouring is not part of the
// request since workers never render.
func (r StripRequest) TileSpec() (fractal.TileSpec, error) {
	alg, err := fractal.ParseAlgorithm(r.Algorithm)
	if err != nil {
		return fractal.TileSpec{}, err
	}
	if r.Width == 0 || r.Height == 0 {
		return fractal.TileSpec{}, fmt.Errorf("strip size %dx%d must be positive", r.Width, r.Height)
	}
	if !r.Origin.IsFinite() || !r.Axes.IsFinite() {
		return fractal.TileSpec{}, fmt.Errorf("strip geometry origin=%s axes=%s must be finite", r.Origin, r.Axes)
	}
	spec := fractal.NewTileSpecRaw(r.Origin, r.Axes,
		fractal.Dimensions{Width: r.Width, Height: r.Height},
		fractal.NewAlgorithmSpec(alg, r.MaxIter, colouring.LinearRainbow))
	return spec.WithYOffset(r.YOffset), nil
}

// StripResult is a plotted strip, or the reason it could not be plotted.
type StripResult struct {
	Job            uint64
	YOffset        uint32
	MaxIterPlotted uint32
	Points         []fractal.PointData
	Err            string
}

// NewStripResult packs a plotted tile for job.
func NewStripResult(job uint64, t *fractal.Tile) StripResult {
	off, _ := t.Spec().YOffset()
	return StripResult{
		Job:            job,
		YOffset:        off,
		MaxIterPlotted: t.MaxIterPlotted(),
		Points:         t.Data(),
	}
}

// Tile unpacks the result as the tile for spec.
func (r StripResult) Tile(spec fractal.TileSpec) (*fractal.Tile, error) {
	if r.Err != "" {
		return nil, errors.New(r.Err)
	}
	if off, _ := spec.YOffset(); off != r.YOffset {
		return nil, fmt.Errorf("result for offset %d does not match strip at %d", r.YOffset, off)
	}
	return fractal.TileFromData(spec, r.Points, r.MaxIterPlotted)
}
