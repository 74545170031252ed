// Command worker connects to a brot server and plots the strips it is
// given until interrupted.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/irpc"
	"golang.org/x/sync/errgroup"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/fractal"
	"github.com/marben/dist_brot/plot"
)

type config struct {
	server    string
	name      string
	conns     int
	cores     int
	rowHeight uint
	cacheSize int
	retry     time.Duration
	verbose   bool
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags(args []string) (config, error) {
	host, _ := os.Hostname()
	var cfg config
	fs := flag.NewFlagSet("worker", flag.ContinueOnError)
	fs.StringVar(&cfg.server, "server", envOr("BROT_SERVER", "ws://localhost:8080/ws"), "server websocket URL (env BROT_SERVER)")
	fs.StringVar(&cfg.name, "name", host, "name to report to the server")
	fs.IntVar(&cfg.conns, "conns", 1, "connections to the server; each plots one strip at a time")
	fs.IntVar(&cfg.cores, "cores", runtime.NumCPU(), "goroutines plotting each strip")
	fs.UintVar(&cfg.rowHeight, "row-height", 8, "height of the pieces each strip is cut into")
	fs.IntVar(&cfg.cacheSize, "cache", 256, "number of plotted pieces to keep")
	fs.DurationVar(&cfg.retry, "retry", 5*time.Second, "wait between reconnect attempts")
	fs.BoolVar(&cfg.verbose, "v", false, "log plotting and cache detail")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.conns < 1 {
		return cfg, errors.New("-conns must be at least 1")
	}
	return cfg, nil
}

// libraryLogger sends fractal and plot logs to stderr: warnings only,
// or everything with verbose set.
func libraryLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func main() {
	if err := run(); err != nil {
		log.Fatalf("run: %+v", err)
	}
}

func run() error {
	cfg, err := parseFlags(os.Args[1:])
	if err != nil {
		return err
	}
	fractal.SetLogger(libraryLogger(cfg.verbose))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	plotter := brot.LocalPlotter{Engine: plot.New(
		plot.WithWorkers(cfg.cores),
		plot.WithRowHeight(uint32(cfg.rowHeight)),
		plot.WithCache(fractal.NewTileCache(cfg.cacheSize)),
	)}
	hello := brot.Hello{Version: brot.ProtocolVersion, Name: cfg.name, Cores: cfg.cores}

	g, ctx := errgroup.WithContext(ctx)
	for i := range cfg.conns {
		g.Go(func() error {
			for {
				err := serveConn(ctx, cfg.server, hello, plotter)
				if ctx.Err() != nil {
					return nil
				}
				log.Printf("conn %d: %v; reconnecting in %s", i, err, cfg.retry)
				select {
				case <-time.After(cfg.retry):
				case <-ctx.Done():
					return nil
				}
			}
		})
	}
	return g.Wait()
}

// serveConn serves p to the server on one connection until it drops.
func serveConn(ctx context.Context, url string, hello brot.Hello, p brot.Plotter) error {
	log.Printf("connecting to %s", url)
	c, _, err := websocket.Dial(ctx, url, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer c.CloseNow()

	if err := wsjson.Write(ctx, c, hello); err != nil {
		return fmt.Errorf("hello: %w", err)
	}
	// The server asks for one strip at a time per connection.
	ep := irpc.NewEndpoint(websocket.NetConn(ctx, c, websocket.MessageBinary),
		irpc.WithEndpointServices(brot.NewPlotterIrpcService(loggingPlotter{p})),
		irpc.WithParallelWorkers(1),
	)
	defer ep.Close()
	log.Printf("connected as %q", hello.Name)

	select {
	case <-ep.Context().Done():
		return context.Cause(ep.Context())
	case <-ctx.Done():
		return ctx.Err()
	}
}

// loggingPlotter logs every strip it plots.
type loggingPlotter struct {
	brot.Plotter
}

func (l loggingPlotter) PlotStrip(ctx context.Context, req brot.StripRequest) (brot.StripResult, error) {
	start := time.Now()
	res, err := l.Plotter.PlotStrip(ctx, req)
	switch {
	case err != nil:
		log.Printf("job %d offset %d: %v", req.Job, req.YOffset, err)
	case res.Err != "":
		log.Printf("job %d offset %d: %s", req.Job, req.YOffset, res.Err)
	default:
		log.Printf("job %d: plotted %dx%d strip at offset %d in %s",
			req.Job, req.Width, req.Height, req.YOffset, time.Since(start).Round(time.Millisecond))
	}
	return res, err
}
