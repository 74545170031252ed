package plot

import (
	"fmt"
	"math"

	"github.com/marben/dist_brot/colouring"
	"github.com/marben/dist_brot/fractal"
)

// Params is a plot request as typed by a user, on a command line or in a
// URL query. Empty strings mean "not given".
type Params struct {
	Fractal  string
	Colourer string
	MaxIter  uint32

	Origin string
	Centre string

	Axes      string
	PixelSize string
	Zoom      float64

	Width, Height uint32
	NoAutoAspect  bool
}

// SetSupersampledSize sets the plot size to width by height pixels, each
// multiplied by antialias. A zero antialias counts as 1. Sizes that do
// not fit a uint32 are rejected.
func (p *Params) SetSupersampledSize(width, height, antialias uint64) error {
	antialias = max(antialias, 1)
	for _, d := range []struct {
		name string
		v    uint64
	}{{"width", width}, {"height", height}} {
		if d.v > math.MaxUint32/antialias {
			return invalid("%s %d with antialias %d exceeds %d pixels", d.name, d.v, antialias, uint64(math.MaxUint32))
		}
	}
	p.Width, p.Height = uint32(width*antialias), uint32(height*antialias)
	return nil
}

// Request parses p. The result still needs validating.
func (p Params) Request() (Request, error) {
	r := Request{
		MaxIter:      p.MaxIter,
		Zoom:         p.Zoom,
		Width:        p.Width,
		Height:       p.Height,
		NoAutoAspect: p.NoAutoAspect,
	}
	var err error
	if p.Fractal != "" {
		if r.Algorithm, err = fractal.ParseAlgorithm(p.Fractal); err != nil {
			return r, err
		}
	}
	if p.Colourer != "" {
		if r.Colourer, err = colouring.Parse(p.Colourer); err != nil {
			return r, err
		}
	}
	for _, f := range []struct {
		name string
		in   string
		out  **fractal.Point
	}{
		{"origin", p.Origin, &r.Origin},
		{"centre", p.Centre, &r.Centre},
		{"axes", p.Axes, &r.Axes},
		{"pixel size", p.PixelSize, &r.PixelSize},
	} {
		if f.in == "" {
			continue
		}
		pt, err := fractal.ParsePoint(f.in)
		if err != nil {
			return r, fmt.Errorf("%w: %s: %w", ErrInvalidRequest, f.name, err)
		}
		*f.out = &pt
	}
	return r, nil
}
