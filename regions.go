package brot

import (
	"fmt"
	"strings"

	"github.com/marben/dist_brot/fractal"
)

// Region is a named landmark of the Mandelbrot set, given as a rectangle
// on the complex plane.
type Region struct {
	Name        string
	Description string
	Xmin, Xmax  float64
	Ymin, Ymax  float64
}

// Centre of the region.
func (r Region) Centre() fractal.Point {
	return fractal.Pt((r.Xmin+r.Xmax)/2, (r.Ymin+r.Ymax)/2)
}

// Axes is the region's extent.
func (r Region) Axes() fractal.Point {
	return fractal.Pt(r.Xmax-r.Xmin, r.Ymax-r.Ymin)
}

var regions = []Region{
	{
		Name: "seahorse-valley", Description: "Dense filaments and repeating seahorse curls",
		Xmin: -0.8, Xmax: -0.7, Ymin: 0.05, Ymax: 0.15,
	},
	{
		Name: "elephant-valley", Description: "Large bulbs with trunk-like tendrils",
		Xmin: -1.85, Xmax: -1.75, Ymin: -0.10, Ymax: -0.02,
	},
	{
		Name: "spiral-minibrot", Description: "A small copy of the set with tight spiral arms",
		Xmin: -0.7435, Xmax: -0.7420, Ymin: 0.1310, Ymax: 0.1325,
	},
	{
		Name: "triple-spiral", Description: "Threefold symmetric spirals",
		Xmin: -0.7480, Xmax: -0.7450, Ymin: 0.0950, Ymax: 0.0980,
	},
	{
		Name: "dragon-valley", Description: "Deep, highly detailed spiral filaments",
		Xmin: -0.7400, Xmax: -0.7350, Ymin: 0.1800, Ymax: 0.1850,
	},
	{
		Name: "mini-spiral-minibrot", Description: "A minibrot inside a spiral arm",
		Xmin: -1.7390, Xmax: -1.7375, Ymin: -0.0235, Ymax: -0.0220,
	},
}

// Regions lists the named regions.
func Regions() []Region {
	return append([]Region(nil), regions...)
}

// LookupRegion finds a region by name, case-insensitively.
func LookupRegion(name string) (Region, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, r := range regions {
		if r.Name == n {
			return r, nil
		}
	}
	return Region{}, fmt.Errorf("unknown region %q", name)
}
