package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/marben/irpc"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/colouring"
	"github.com/marben/dist_brot/fractal"
	"github.com/marben/dist_brot/plot"
)

func TestParseFlags(t *testing.T) {
	t.Setenv("BROT_SERVER", "ws://example:9/ws")
	cfg, err := parseFlags([]string{"-conns", "3", "-name", "box"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.server != "ws://example:9/ws" || cfg.conns != 3 || cfg.name != "box" {
		t.Errorf("cfg = %+v", cfg)
	}
	if _, err := parseFlags([]string{"-conns", "0"}); err == nil {
		t.Error("expected error for -conns 0")
	}
}

// TestServeConn plays the server's side of the protocol for one strip.
func TestServeConn(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	alg := fractal.NewAlgorithmSpec(fractal.Original, 64, colouring.LinearRainbow)
	spec := fractal.NewTileSpec(fractal.AtCentre(fractal.Pt(-1, 0)), fractal.AxesLength(fractal.Pt(4, 4)),
		fractal.Dimensions{Width: 20, Height: 20}, alg)
	strips, err := spec.Split(7)
	if err != nil {
		t.Fatal(err)
	}
	strip := strips[1]

	results := make(chan brot.StripResult, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer c.CloseNow()

		var hello brot.Hello
		if err := wsjson.Read(ctx, c, &hello); err != nil {
			t.Errorf("hello: %v", err)
			return
		}
		if hello.Version != brot.ProtocolVersion || hello.Name != "tester" {
			t.Errorf("hello = %+v", hello)
		}
		ep := irpc.NewEndpoint(websocket.NetConn(ctx, c, websocket.MessageBinary))
		defer ep.Close()
		client, err := brot.NewPlotterIrpcClient(ep)
		if err != nil {
			t.Errorf("client: %v", err)
			return
		}
		res, err := client.PlotStrip(ctx, brot.NewStripRequest(5, strip))
		if err != nil {
			t.Errorf("PlotStrip: %v", err)
			return
		}
		results <- res
	}))
	defer srv.Close()

	plotter := brot.LocalPlotter{Engine: plot.New(plot.WithRowHeight(2))}
	hello := brot.Hello{Version: brot.ProtocolVersion, Name: "tester", Cores: 1}
	served := make(chan error, 1)
	go func() {
		served <- serveConn(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), hello, plotter)
	}()

	select {
	case res := <-results:
		tile, err := res.Tile(strip)
		if err != nil {
			t.Fatal(err)
		}
		if res.Job != 5 || !tile.IsComplete() {
			t.Errorf("job %d complete=%v", res.Job, tile.IsComplete())
		}
	case <-ctx.Done():
		t.Fatal("no result from worker")
	}

	// The server hanging up ends serveConn so the worker can reconnect.
	select {
	case err := <-served:
		if err == nil {
			t.Error("serveConn returned nil after the server hung up")
		}
	case <-ctx.Done():
		t.Fatal("serveConn still running after the server hung up")
	}
}
