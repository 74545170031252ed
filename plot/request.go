package plot

import (
	"errors"
	"fmt"
	"math"

	"github.com/marben/dist_brot/colouring"
	"github.com/marben/dist_brot/fractal"
)

// ErrInvalidRequest wraps every validation failure.
var ErrInvalidRequest = errors.New("invalid plot request")

// Request is a plot as a user describes it. At most one of Origin and
// Centre, and at most one of Axes, PixelSize and Zoom, may be set; unset
// values fall back to the algorithm's default viewport.
type Request struct {
	Algorithm fractal.Algorithm
	MaxIter   uint32
	Colourer  colouring.Selection

	Origin *fractal.Point
	Centre *fractal.Point

	Axes      *fractal.Point
	PixelSize *fractal.Point
	Zoom      float64

	Width, Height uint32

	// NoAutoAspect keeps the axes exactly as given, even if that makes
	// pixels non-square.
	NoAutoAspect bool
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidRequest, fmt.Sprintf(format, args...))
}

// Validate checks the request without building anything.
func (r Request) Validate() error {
	if r.Width == 0 || r.Height == 0 {
		return invalid("plot size %dx%d must be positive", r.Width, r.Height)
	}
	if r.MaxIter == 0 {
		return invalid("max iterations must be positive")
	}
	if r.Origin != nil && r.Centre != nil {
		return invalid("give either an origin or a centre, not both")
	}
	for _, p := range []*fractal.Point{r.Origin, r.Centre} {
		if p != nil && !p.IsFinite() {
			return invalid("location %s must be finite", *p)
		}
	}

	sizes := 0
	if r.Axes != nil {
		sizes++
		if _, err := checkAxes(*r.Axes); err != nil {
			return err
		}
	}
	if r.PixelSize != nil {
		sizes++
		if _, err := checkAxes(*r.PixelSize); err != nil {
			return err
		}
	}
	if r.Zoom != 0 {
		sizes++
		if !(r.Zoom > 0) || math.IsInf(r.Zoom, 0) {
			return invalid("zoom %v must be positive", r.Zoom)
		}
	}
	if sizes > 1 {
		return invalid("give at most one of axes, pixel size and zoom")
	}
	return nil
}

// checkAxes fills in a missing imaginary length from the real one and
// rejects lengths a plot cannot be built from.
func checkAxes(p fractal.Point) (fractal.Point, error) {
	if p.Im == 0 {
		p.Im = p.Re
	}
	switch {
	case math.IsNaN(p.Re) || math.IsInf(p.Re, 0):
		return p, invalid("real axis must be finite")
	case p.Re == 0:
		return p, invalid("real axis cannot be zero")
	case math.IsNaN(p.Im) || math.IsInf(p.Im, 0):
		return p, invalid("imaginary axis must be finite")
	}
	return p, nil
}

// TileSpec validates r and resolves it into a canonical spec. Unless
// NoAutoAspect is set, the axes are grown to make pixels square; adjusted
// reports whether that changed anything.
func (r Request) TileSpec() (spec fractal.TileSpec, adjusted bool, err error) {
	if err := r.Validate(); err != nil {
		return spec, false, err
	}

	loc := fractal.AtCentre(r.Algorithm.DefaultCentre())
	switch {
	case r.Origin != nil:
		loc = fractal.AtOrigin(*r.Origin)
	case r.Centre != nil:
		loc = fractal.AtCentre(*r.Centre)
	}

	var size fractal.Size
	switch {
	case r.PixelSize != nil:
		p, _ := checkAxes(*r.PixelSize)
		size = fractal.PixelSize(p)
	case r.Zoom != 0:
		size = fractal.ZoomFactor(r.Zoom)
	case r.Axes != nil:
		p, _ := checkAxes(*r.Axes)
		size = fractal.AxesLength(p)
	default:
		size = fractal.AxesLength(r.Algorithm.DefaultAxes())
	}

	alg := fractal.NewAlgorithmSpec(r.Algorithm, r.MaxIter, r.Colourer)
	spec = fractal.NewTileSpec(loc, size, fractal.Dimensions{Width: r.Width, Height: r.Height}, alg)
	if r.NoAutoAspect {
		return spec, false, nil
	}
	_, adjusted, err = spec.AutoAdjustAspectRatio()
	switch {
	case errors.Is(err, fractal.ErrLogic):
		// Axes pointing the wrong way cannot be squared up; plot them as given.
		fractal.Logger().Debug("auto aspect skipped", "spec", spec, "err", err)
		return spec, false, nil
	case err != nil:
		return spec, false, fmt.Errorf("auto aspect: %w", err)
	}
	return spec, adjusted, nil
}
