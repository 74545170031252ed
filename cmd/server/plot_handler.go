package main

import (
	"bytes"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strconv"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/plot"
	"github.com/marben/dist_brot/render"
)

var contentTypes = map[render.Format]string{
	render.PNG:      "image/png",
	render.AsciiArt: "text/plain; charset=utf-8",
	render.CSV:      "text/csv; charset=utf-8",
}

// plotRequest is a parsed /plot query.
type plotRequest struct {
	req    plot.Request
	format render.Format
	opts   render.Options
}

func parseUint(q url.Values, key string, def uint64) (uint64, error) {
	s := q.Get(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return v, nil
}

func parsePlotQuery(q url.Values) (plotRequest, error) {
	var pr plotRequest

	maxIter, err := parseUint(q, "max-iter", 512)
	if err != nil {
		return pr, err
	}
	width, err := parseUint(q, "width", 300)
	if err != nil {
		return pr, err
	}
	height, err := parseUint(q, "height", 300)
	if err != nil {
		return pr, err
	}
	antialias, err := parseUint(q, "antialias", 1)
	if err != nil {
		return pr, err
	}
	antialias = max(antialias, 1)

	params := plot.Params{
		Fractal:      q.Get("fractal"),
		Colourer:     q.Get("colourer"),
		MaxIter:      uint32(maxIter),
		Origin:       q.Get("origin"),
		Centre:       q.Get("centre"),
		Axes:         q.Get("axes"),
		PixelSize:    q.Get("pixel-size"),
		NoAutoAspect: q.Has("no-auto-aspect"),
	}
	if err := params.SetSupersampledSize(width, height, antialias); err != nil {
		return pr, err
	}
	if z := q.Get("zoom"); z != "" {
		if params.Zoom, err = strconv.ParseFloat(z, 64); err != nil {
			return pr, fmt.Errorf("zoom: %w", err)
		}
	}
	if pr.req, err = params.Request(); err != nil {
		return pr, err
	}
	if name := q.Get("region"); name != "" {
		region, err := brot.LookupRegion(name)
		if err != nil {
			return pr, err
		}
		c, a := region.Centre(), region.Axes()
		pr.req.Origin, pr.req.Centre, pr.req.Axes = nil, &c, &a
	}

	pr.format = render.PNG
	if t := q.Get("type"); t != "" {
		if pr.format, err = render.ParseFormat(t); err != nil {
			return pr, err
		}
	}
	pr.opts = render.Options{Caption: q.Has("caption")}
	if pr.format == render.PNG {
		pr.opts.Downsample = int(antialias)
	}
	return pr, nil
}

// plotHandler serves GET /plot. The query mirrors the brot command's
// flags, e.g. /plot?fractal=original&centre=-0.75%2B0.1i&zoom=40&width=800&height=600
func plotHandler(sched *stripScheduler, maxPixels uint64) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pr, err := parsePlotQuery(r.URL.Query())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if px := uint64(pr.req.Width) * uint64(pr.req.Height); px > maxPixels {
			http.Error(w, fmt.Sprintf("plot of %d pixels exceeds limit of %d", px, maxPixels), http.StatusBadRequest)
			return
		}
		spec, _, err := pr.req.TileSpec()
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		j, err := sched.submit(spec)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		tiles, err := sched.wait(r.Context(), j)
		if err != nil {
			// The client has gone away; nobody to answer.
			log.Printf("plot: %v", err)
			return
		}

		var buf bytes.Buffer
		if err := render.Render(&buf, pr.format, spec, tiles, pr.opts); err != nil {
			log.Printf("job %d: render: %v", j.id, err)
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", contentTypes[pr.format])
		w.Header().Set("X-Plot-Spec", spec.String())
		_, _ = w.Write(buf.Bytes())
	})
}
