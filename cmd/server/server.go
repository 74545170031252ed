// Command server coordinates a distributed plot. It splits each requested
// plot into strips and hands them to workers connected over websockets;
// the finished plot is returned over HTTP.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/marben/irpc"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/fractal"
	"github.com/marben/dist_brot/plot"
)

type config struct {
	addr           string
	cacheSize      int
	rowHeight      uint
	localWorkers   int
	stripTimeout   time.Duration
	maxPixels      uint64
	originPatterns string
	verbose        bool
}

func envOr(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func parseFlags(args []string) (config, error) {
	var cfg config
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.addr, "addr", envOr("BROT_ADDR", ":8080"), "HTTP listen address (env BROT_ADDR)")
	fs.IntVar(&cfg.cacheSize, "cache", 1024, "number of plotted strips to keep")
	fs.UintVar(&cfg.rowHeight, "row-height", plot.DefaultRowHeight, "strip height in pixels")
	fs.IntVar(&cfg.localWorkers, "local-workers", 0, "strips to plot in this process at once, besides remote workers")
	fs.DurationVar(&cfg.stripTimeout, "strip-timeout", 5*time.Minute, "drop a worker that takes longer than this over one strip")
	fs.Uint64Var(&cfg.maxPixels, "max-pixels", 16<<20, "largest plot accepted, in pixels")
	fs.StringVar(&cfg.originPatterns, "origins", envOr("BROT_ORIGINS", "*"), "comma separated websocket origin patterns (env BROT_ORIGINS)")
	fs.BoolVar(&cfg.verbose, "v", false, "log plotting and cache detail")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.rowHeight == 0 {
		return cfg, errors.New("-row-height must be positive")
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

// main is the entry point for the coordinator.
// Note: remote workers do the plotting; the server only splits, schedules and renders.
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

	cache := fractal.NewTileCache(cfg.cacheSize)
	sched := newStripScheduler(cache, uint32(cfg.rowHeight))

	// Local workers use the same scheduler as remote ones.
	if cfg.localWorkers > 0 {
		local := brot.LocalPlotter{Engine: plot.New(plot.WithRowHeight(0))}
		for i := range cfg.localWorkers {
			go func() {
				if err := sched.serve(ctx, local, fmt.Sprintf("local-%d", i)); err != nil && ctx.Err() == nil {
					log.Printf("local worker %d: %v", i, err)
				}
			}()
		}
	}

	workers := newWorkerListener(ctx, cfg.addr+"/ws", strings.Split(cfg.originPatterns, ","))
	irpcServer := newWorkerServer(ctx, sched, cfg.stripTimeout)
	go func() {
		err := irpcServer.Serve(workers)
		if !errors.Is(err, irpc.ErrServerClosed) && !errors.Is(err, net.ErrClosed) {
			log.Printf("irpcServer.Serve(): %v", err)
		}
	}()

	srv := &http.Server{
		Addr:              cfg.addr,
		Handler:           newMux(workers, sched, cache, cfg.maxPixels),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := irpcServer.Close(); err != nil {
			log.Printf("irpc server close: %v", err)
		}
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("http shutdown: %v", err)
		}
	}()

	log.Printf("listening on http://localhost%s (workers connect to /ws)", cfg.addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer: %w", err)
	}
	return nil
}

// newWorkerServer plugs every worker endpoint into the scheduler. A
// worker stays scheduled until its endpoint closes or ctx ends.
func newWorkerServer(ctx context.Context, sched *stripScheduler, timeout time.Duration) *irpc.Server {
	return irpc.NewServer(irpc.WithOnConnect(func(ep *irpc.Endpoint) {
		go func() {
			defer ep.Close()
			hello := helloOf(ep.RemoteAddr())
			log.Printf("got worker %q (%d cores)", hello.Name, hello.Cores)

			w, err := newRemoteWorker(ep, timeout)
			if err != nil {
				log.Printf("worker %q: %v", hello.Name, err)
				return
			}

			wctx, cancel := context.WithCancelCause(ctx)
			defer cancel(nil)
			stop := context.AfterFunc(ep.Context(), func() {
				cancel(context.Cause(ep.Context()))
			})
			defer stop()

			if err := sched.serve(wctx, w, hello.Name); err != nil && ctx.Err() == nil {
				log.Printf("worker %q: %v", hello.Name, err)
			}
		}()
	}))
}

func newMux(l *workerListener, sched *stripScheduler, cache *fractal.TileCache, maxPixels uint64) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", websocketHandler(l))
	mux.Handle("GET /plot", plotHandler(sched, maxPixels))
	mux.HandleFunc("GET /status", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(struct {
			Scheduler schedulerStatus    `json:"scheduler"`
			Cache     fractal.CacheStats `json:"cache"`
		}{sched.status(), cache.Stats()})
	})
	return mux
}
