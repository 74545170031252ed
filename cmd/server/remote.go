package main

import (
	"context"
	"fmt"
	"time"

	"github.com/marben/irpc"

	brot "github.com/marben/dist_brot"
)

// remoteWorker plots strips on the far end of a worker's irpc endpoint,
// one strip at a time.
type remoteWorker struct {
	ep      *irpc.Endpoint
	client  brot.Plotter
	timeout time.Duration
}

func newRemoteWorker(ep *irpc.Endpoint, timeout time.Duration) (*remoteWorker, error) {
	client, err := brot.NewPlotterIrpcClient(ep)
	if err != nil {
		return nil, fmt.Errorf("NewPlotterIrpcClient(): %w", err)
	}
	return &remoteWorker{ep: ep, client: client, timeout: timeout}, nil
}

// PlotStrip implements brot.Plotter. A worker that overruns the timeout,
// or is asked to stop, loses its endpoint: irpc would otherwise keep
// waiting for the cancelled call's answer.
func (w *remoteWorker) PlotStrip(ctx context.Context, req brot.StripRequest) (brot.StripResult, error) {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}
	stop := context.AfterFunc(ctx, func() {
		_ = w.ep.Close()
	})
	defer stop()

	res, err := w.client.PlotStrip(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return brot.StripResult{}, fmt.Errorf("%w: %w", ctx.Err(), err)
		}
		return brot.StripResult{}, err
	}
	if res.Job != req.Job || res.YOffset != req.YOffset {
		return brot.StripResult{}, fmt.Errorf("asked for job %d offset %d, got job %d offset %d",
			req.Job, req.YOffset, res.Job, res.YOffset)
	}
	return res, nil
}

var _ brot.Plotter = (*remoteWorker)(nil)
