package brot

import (
	"context"

	"github.com/marben/dist_brot/plot"
)

// LocalPlotter plots strips in this process.
type LocalPlotter struct {
	Engine *plot.Engine
}

// PlotStrip implements Plotter. Failures to plot are reported in the
// result; the error is reserved for cancellation.
func (l LocalPlotter) PlotStrip(ctx context.Context, req StripRequest) (StripResult, error) {
	spec, err := req.TileSpec()
	if err != nil {
		return StripResult{Job: req.Job, YOffset: req.YOffset, Err: err.Error()}, nil
	}
	res, err := l.Engine.Plot(ctx, spec)
	if err != nil {
		if ctx.Err() != nil {
			return StripResult{}, ctx.Err()
		}
		return StripResult{Job: req.Job, YOffset: req.YOffset, Err: err.Error()}, nil
	}
	return NewStripResult(req.Job, res.Tile), nil
}

var _ Plotter = LocalPlotter{}
