package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	brot "github.com/marben/dist_brot"
	"github.com/marben/dist_brot/colouring"
	"github.com/marben/dist_brot/fractal"
	"github.com/marben/dist_brot/render"
)

func listCmd(args []string, w io.Writer) error {
	if len(args) != 1 {
		return fmt.Errorf("list: want one of fractals, colourers, output-types, regions")
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch args[0] {
	case "fractals":
		for _, a := range fractal.Algorithms() {
			fmt.Fprintf(tw, "%s\t%s\n", a, a.Description())
		}
	case "colourers", "colorers":
		for _, s := range colouring.Selections() {
			fmt.Fprintf(tw, "%s\t%s\n", s, s.Description())
		}
	case "output-types":
		for _, f := range render.Formats() {
			fmt.Fprintf(tw, "%s\t%s\n", f, f.Description())
		}
	case "regions":
		for _, r := range brot.Regions() {
			fmt.Fprintf(tw, "%s\t%s\tcentre=%s axes=%s\n", r.Name, r.Description, r.Centre(), r.Axes())
		}
	default:
		return fmt.Errorf("list: unknown list %q", args[0])
	}
	return tw.Flush()
}
