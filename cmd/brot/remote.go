package main

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/marben/dist_brot/render"
)

// remotePlot asks a brot server to plot and saves what comes back.
func remotePlot(a plotArgs, format render.Format, stdout io.Writer) (err error) {
	u, err := url.Parse(a.server)
	if err != nil {
		return fmt.Errorf("server url: %w", err)
	}
	u = u.JoinPath("plot")

	q := url.Values{}
	set := func(k, v string) {
		if v != "" {
			q.Set(k, v)
		}
	}
	set("fractal", a.params.Fractal)
	set("colourer", a.params.Colourer)
	set("max-iter", strconv.FormatUint(uint64(a.maxIter), 10))
	set("origin", a.params.Origin)
	set("centre", a.params.Centre)
	set("region", a.region)
	set("axes", a.params.Axes)
	set("pixel-size", a.params.PixelSize)
	if a.params.Zoom != 0 {
		set("zoom", strconv.FormatFloat(a.params.Zoom, 'g', -1, 64))
	}
	set("width", strconv.FormatUint(uint64(a.width), 10))
	set("height", strconv.FormatUint(uint64(a.height), 10))
	set("antialias", strconv.FormatUint(uint64(a.antialias), 10))
	set("type", format.String())
	if a.params.NoAutoAspect {
		q.Set("no-auto-aspect", "")
	}
	if a.caption {
		q.Set("caption", "")
	}
	u.RawQuery = q.Encode()

	log.Printf("asking %s for the plot", u.Redacted())
	start := time.Now()
	resp, err := http.Get(u.String())
	if err != nil {
		return fmt.Errorf("http get: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("server: %s: %s", resp.Status, body)
	}

	var out io.Writer = stdout
	if a.output != "-" {
		f, err := os.Create(a.output)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		out = f
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("saving plot: %w", err)
	}
	log.Printf("plot %s saved to %q in %s", resp.Header.Get("X-Plot-Spec"), a.output, time.Since(start).Round(time.Millisecond))
	return nil
}
