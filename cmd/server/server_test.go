package main

import (
	"context"
	"errors"
	"image/png"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
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

// runTestWorker is a minimal worker: a hello, then Plotter served over irpc.
func runTestWorker(ctx context.Context, t *testing.T, wsURL string) {
	c, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Errorf("dial: %v", err)
		return
	}
	defer c.CloseNow()

	if err := wsjson.Write(ctx, c, brot.Hello{Version: brot.ProtocolVersion, Name: "test-worker", Cores: 1}); err != nil {
		t.Errorf("hello: %v", err)
		return
	}
	local := brot.LocalPlotter{Engine: plot.New()}
	ep := irpc.NewEndpoint(websocket.NetConn(ctx, c, websocket.MessageBinary),
		irpc.WithEndpointServices(brot.NewPlotterIrpcService(local)))
	defer ep.Close()
	select {
	case <-ctx.Done():
	case <-ep.Context().Done():
	}
}

func TestPlotOverWebsocket(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cache := fractal.NewTileCache(64)
	sched := newStripScheduler(cache, 16)
	l := newWorkerListener(ctx, "test/ws", []string{"*"})
	irpcServer := newWorkerServer(ctx, sched, time.Minute)
	defer irpcServer.Close()
	go irpcServer.Serve(l)

	srv := httptest.NewServer(newMux(l, sched, cache, 1<<20))
	defer srv.Close()

	go runTestWorker(ctx, t, "ws"+strings.TrimPrefix(srv.URL, "http")+"/ws")

	q := url.Values{}
	q.Set("fractal", "original")
	q.Set("centre", "-0.75+0.1i")
	q.Set("axes", "0.1")
	q.Set("width", "40")
	q.Set("height", "30")
	q.Set("max-iter", "128")
	resp, err := http.Get(srv.URL + "/plot?" + q.Encode())
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %s", resp.Status)
	}
	img, err := png.Decode(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("image is %v, want 40x30", b)
	}
	if cache.Len() == 0 {
		t.Error("plotted strips were not cached")
	}
	if st := sched.status(); st.Workers != 1 {
		t.Errorf("active workers = %d, want the test worker only", st.Workers)
	}
}

func TestRemoteWorkerTimeout(t *testing.T) {
	c1, c2 := net.Pipe()
	stuck := plotterFunc(func(ctx context.Context, req brot.StripRequest) (brot.StripResult, error) {
		<-ctx.Done()
		return brot.StripResult{}, ctx.Err()
	})
	service := irpc.NewEndpoint(c1, irpc.WithEndpointServices(brot.NewPlotterIrpcService(stuck)))
	defer service.Close()
	wc := &workerConn{Conn: c2, Hello: brot.Hello{Name: "slowpoke"}}
	ep := irpc.NewEndpoint(wc, irpc.WithRemoteAddress(wc.RemoteAddr()))

	if got := helloOf(ep.RemoteAddr()).Name; got != "slowpoke" {
		t.Errorf("worker name = %q, want slowpoke", got)
	}

	w, err := newRemoteWorker(ep, 50*time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	_, err = w.PlotStrip(context.Background(), brot.NewStripRequest(1, testSpec(colouring.Monochrome)))
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("err = %v, want deadline exceeded", err)
	}
	select {
	case <-ep.Context().Done():
	case <-time.After(time.Second):
		t.Error("endpoint of a timed out worker left open")
	}
}

func TestParsePlotQuery(t *testing.T) {
	tests := []struct {
		query string
		ok    bool
	}{
		{"", true},
		{"fractal=ship&zoom=2&width=10&height=10", true},
		{"region=seahorse-valley&type=aa", true},
		{"antialias=3&caption", true},
		{"fractal=nope", false},
		{"width=-1", false},
		{"zoom=big", false},
		{"region=atlantis", false},
		{"type=gif", false},
		{"width=4294967295&antialias=2", false},
		{"height=65536&antialias=65536", false},
	}
	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}
		_, err = parsePlotQuery(q)
		if (err == nil) != tt.ok {
			t.Errorf("parsePlotQuery(%q) err = %v, want ok=%v", tt.query, err, tt.ok)
		}
	}

	q, _ := url.ParseQuery("antialias=3&width=100&height=50")
	pr, err := parsePlotQuery(q)
	if err != nil {
		t.Fatal(err)
	}
	if pr.req.Width != 300 || pr.req.Height != 150 || pr.opts.Downsample != 3 {
		t.Errorf("antialias: %dx%d downsample %d", pr.req.Width, pr.req.Height, pr.opts.Downsample)
	}
}
