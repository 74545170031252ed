package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/fractal"
	"github.com/marben/dist_brot/plot"
	"github.com/marben/dist_brot/render"
)

type plotArgs struct {
	params     plot.Params
	maxIter    uint
	width      uint
	height     uint
	region     string
	output     string
	outputType string
	noSplit    bool
	timing     bool
	caption    bool
	antialias  uint
	workers    int
	debug      int
	server     string
	verbose    bool
}

func parsePlotArgs(args []string) (plotArgs, error) {
	var a plotArgs
	fs := flag.NewFlagSet("plot", flag.ContinueOnError)

	fs.StringVar(&a.params.Fractal, "fractal", "original", "fractal algorithm (see `brot list fractals`)")
	fs.UintVar(&a.maxIter, "max-iter", 512, "maximum number of iterations before assuming a pixel never escapes")
	fs.StringVar(&a.params.Colourer, "colourer", "linear-rainbow", "colouring algorithm (see `brot list colourers`)")

	fs.StringVar(&a.params.Origin, "origin", "", "origin (bottom-left) of the plot, e.g. -3-3i")
	fs.StringVar(&a.params.Centre, "centre", "", "centre of the plot, e.g. -1-1i")
	fs.StringVar(&a.region, "region", "", "named region to plot (see `brot list regions`)")

	fs.StringVar(&a.params.Axes, "axes", "", "axes length, e.g. 3+3i; a real length alone is used for both")
	fs.StringVar(&a.params.PixelSize, "pixel-size", "", "size of one pixel, e.g. 0.003+0.003i")
	fs.Float64Var(&a.params.Zoom, "zoom", 0, "zoom factor relative to the fractal's default")
	fs.BoolVar(&a.params.NoAutoAspect, "no-auto-aspect", false, "keep the axes as given even if pixels come out non-square")

	fs.UintVar(&a.width, "width", 300, "plot width in pixels")
	fs.UintVar(&a.height, "height", 300, "plot height in pixels")
	fs.StringVar(&a.output, "o", "", "output file, or - for stdout (requires -type)")
	fs.StringVar(&a.outputType, "type", "", "output type (default: from the file extension; see `brot list output-types`)")
	fs.BoolVar(&a.caption, "caption", false, "write the plot parameters onto PNG output")
	fs.UintVar(&a.antialias, "antialias", 1, "plot at N times the size and scale PNG output down")

	fs.BoolVar(&a.noSplit, "no-split", false, "plot as a single tile rather than parallel strips")
	fs.BoolVar(&a.timing, "timing", false, "report how long each phase took")
	fs.IntVar(&a.workers, "workers", 0, "strips to plot at once (default GOMAXPROCS)")
	fs.IntVar(&a.debug, "debug", 0, "detail level for CSV output")
	fs.BoolVar(&a.verbose, "v", false, "log strip and cache detail to stderr")
	fs.StringVar(&a.server, "server", "", "ask the brot server at this URL to plot instead, e.g. http://localhost:8080")

	if err := fs.Parse(args); err != nil {
		return a, err
	}
	if a.output == "" {
		return a, errors.New("plot: -o is required")
	}
	if a.antialias == 0 {
		a.antialias = 1
	}
	a.params.MaxIter = uint32(a.maxIter)
	if err := a.params.SetSupersampledSize(uint64(a.width), uint64(a.height), uint64(a.antialias)); err != nil {
		return a, fmt.Errorf("plot: %w", err)
	}
	return a, nil
}

// format picks the output type from -type or the output file name.
func (a plotArgs) format() (render.Format, error) {
	if a.outputType != "" {
		return render.ParseFormat(a.outputType)
	}
	f, ok := render.FormatFromFilename(a.output)
	if !ok {
		return f, fmt.Errorf("could not tell output type from %q (try -type)", a.output)
	}
	return f, nil
}

func (a plotArgs) request() (plot.Request, error) {
	req, err := a.params.Request()
	if err != nil {
		return req, err
	}
	if a.region != "" {
		region, err := brot.LookupRegion(a.region)
		if err != nil {
			return req, err
		}
		c, ax := region.Centre(), region.Axes()
		req.Origin, req.Centre, req.Axes = nil, &c, &ax
	}
	return req, nil
}

func plotCmd(args []string, stdout io.Writer) error {
	a, err := parsePlotArgs(args)
	if err != nil {
		return err
	}
	format, err := a.format()
	if err != nil {
		return err
	}
	if a.verbose {
		fractal.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
		defer fractal.SetLogger(nil)
	}
	if a.server != "" {
		return remotePlot(a, format, stdout)
	}

	req, err := a.request()
	if err != nil {
		return err
	}
	spec, adjusted, err := req.TileSpec()
	if err != nil {
		return err
	}
	if adjusted {
		fmt.Fprintf(os.Stderr, "Auto adjusted aspect ratio. Axes are now %s (you can suppress this with -no-auto-aspect)\n", spec.Axes())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []plot.Option{plot.WithWorkers(a.workers)}
	if a.noSplit {
		opts = append(opts, plot.WithRowHeight(0))
	}
	res, err := plot.New(opts...).Plot(ctx, spec)
	if err != nil {
		return err
	}

	start := time.Now()
	ropts := render.Options{Caption: a.caption, Debug: a.debug}
	if format == render.PNG {
		ropts.Downsample = int(a.antialias)
	}
	if err := render.RenderFile(a.output, format, spec, []*fractal.Tile{res.Tile}, ropts); err != nil {
		return err
	}
	renderTime := time.Since(start)

	// Keep stdout clean when the plot itself went there.
	info := stdout
	if a.output == "-" {
		info = os.Stderr
	}
	if a.timing {
		reportTiming(info, spec, res.Timings, renderTime)
	}
	fmt.Fprintln(info, res.Tile.InfoString())
	return nil
}

func reportTiming(w io.Writer, spec fractal.TileSpec, t plot.Timings, renderTime time.Duration) {
	p := message.NewPrinter(language.English)
	pixels := uint64(spec.Width()) * uint64(spec.Height())
	rate := float64(pixels) / max(t.Plot.Seconds(), 1e-9)
	p.Fprintf(w, "times: split %v, plot %v, join %v, render %v\n", t.Split, t.Plot, t.Join, renderTime)
	p.Fprintf(w, "%d pixels at %.0f pixels/s\n", pixels, rate)
}
