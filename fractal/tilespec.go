package fractal

import (
	"errors"
	"fmt"

	"github.com/marben/dist_brot/colouring"
)

// ErrLogic marks an internal invariant violation: a programming defect,
// not something the caller can retry.
var ErrLogic = errors.New("logic error")

// DefaultAxisLength is the real axis length at zoom factor 1.
const DefaultAxisLength Scalar = 4.0

// Dimensions is a size in pixels.
type Dimensions struct {
	Width, Height uint32
}

// AspectRatio is width / height.
func (d Dimensions) AspectRatio() float64 {
	return float64(d.Width) / float64(d.Height)
}

func (d Dimensions) String() string {
	return fmt.Sprintf("(w=%d h=%d)", d.Width, d.Height)
}

// AlgorithmSpec holds what to compute at each point.
// Algorithm and MaxIter determine the plotted values; Colourer only
// affects rendering and is ignored by cache identity.
type AlgorithmSpec struct {
	Algorithm Algorithm
	MaxIter   uint32
	Colourer  colouring.Selection
}

// NewAlgorithmSpec returns a spec shared by all strips of one plot.
func NewAlgorithmSpec(alg Algorithm, maxIter uint32, col colouring.Selection) *AlgorithmSpec {
	return &AlgorithmSpec{Algorithm: alg, MaxIter: maxIter, Colourer: col}
}

type locationKind uint8

const (
	locOrigin locationKind = iota
	locCentre
)

// Location is where a plot sits on the complex plane.
type Location struct {
	kind locationKind
	pt   Point
}

// AtOrigin places the bottom-left corner (smallest real and imaginary) at p.
func AtOrigin(p Point) Location { return Location{kind: locOrigin, pt: p} }

// AtCentre places the centre of the plot at p.
func AtCentre(p Point) Location { return Location{kind: locCentre, pt: p} }

type sizeKind uint8

const (
	sizeAxes sizeKind = iota
	sizePixel
	sizeZoom
)

// Size is how large a plot is on the complex plane.
type Size struct {
	kind sizeKind
	pt   Point
	zoom Scalar
}

// AxesLength gives the length of both axes directly.
func AxesLength(p Point) Size { return Size{kind: sizeAxes, pt: p} }

// PixelSize gives the size of one pixel in both dimensions.
func PixelSize(p Point) Size { return Size{kind: sizePixel, pt: p} }

// ZoomFactor zooms relative to DefaultAxisLength on the real axis, with
// square pixels.
func ZoomFactor(z Scalar) Size { return Size{kind: sizeZoom, zoom: z} }

// TileSpec is the canonical description of a region to plot.
// Construct with NewTileSpec or NewTileSpecRaw.
type TileSpec struct {
	// origin is the bottom-left corner, smallest real and imaginary.
	origin Point
	axes   Point
	size   Dimensions
	alg    *AlgorithmSpec

	// yOffset is the pixel row of this strip's top edge within a larger
	// plot, counted from the top. Only meaningful if hasOffset.
	yOffset   uint32
	hasOffset bool
}

// NewTileSpec canonicalises a user-facing location and size.
// Axes are resolved first because a centre-based origin depends on them.
// The caller validates the inputs (finite axes, non-zero real axis,
// positive zoom).
func NewTileSpec(loc Location, sz Size, dim Dimensions, alg *AlgorithmSpec) TileSpec {
	var axes Point
	switch sz.kind {
	case sizeAxes:
		axes = sz.pt
	case sizePixel:
		axes = Point{
			Re: sz.pt.Re * Scalar(dim.Width),
			Im: sz.pt.Im * Scalar(dim.Height),
		}
	case sizeZoom:
		re := DefaultAxisLength / sz.zoom
		axes = Point{Re: re, Im: re / dim.AspectRatio()}
	}

	var origin Point
	switch loc.kind {
	case locOrigin:
		origin = loc.pt
	case locCentre:
		origin = loc.pt.Sub(axes.Scale(0.5))
	}
	return NewTileSpecRaw(origin, axes, dim, alg)
}

// NewTileSpecRaw builds a spec from an already canonical origin and axes.
func NewTileSpecRaw(origin, axes Point, dim Dimensions, alg *AlgorithmSpec) TileSpec {
	return TileSpec{origin: origin, axes: axes, size: dim, alg: alg}
}

// newTileSpecWithOffset builds a strip of a larger plot.
func newTileSpecWithOffset(origin, axes Point, dim Dimensions, yOffset uint32, alg *AlgorithmSpec) TileSpec {
	return TileSpec{origin: origin, axes: axes, size: dim, alg: alg, yOffset: yOffset, hasOffset: true}
}

// WithYOffset returns a copy of s positioned yOffset rows below the top of
// a larger plot. Used when a strip spec arrives from elsewhere.
func (s TileSpec) WithYOffset(yOffset uint32) TileSpec {
	s.yOffset = yOffset
	s.hasOffset = true
	return s
}

// Origin is the bottom-left point as drawn.
func (s TileSpec) Origin() Point { return s.origin }

// Axes is the extent of the plot.
func (s TileSpec) Axes() Point { return s.axes }

// Size is the size in pixels.
func (s TileSpec) Size() Dimensions { return s.size }

// Width in pixels.
func (s TileSpec) Width() uint32 { return s.size.Width }

// Height in pixels.
func (s TileSpec) Height() uint32 { return s.size.Height }

// Centre of the plot.
func (s TileSpec) Centre() Point { return s.origin.Add(s.axes.Scale(0.5)) }

// TopLeft is the smallest real, largest imaginary point as drawn.
func (s TileSpec) TopLeft() Point {
	return Point{Re: s.origin.Re, Im: s.origin.Im + s.axes.Im}
}

// BottomRight is the largest real, smallest imaginary point as drawn.
func (s TileSpec) BottomRight() Point {
	return Point{Re: s.origin.Re + s.axes.Re, Im: s.origin.Im}
}

// PixelSize is axes / size, componentwise.
func (s TileSpec) PixelSize() Point {
	return Point{
		Re: s.axes.Re / Scalar(s.size.Width),
		Im: s.axes.Im / Scalar(s.size.Height),
	}
}

// AlgorithmSpec returns the shared algorithm parameters.
func (s TileSpec) AlgorithmSpec() *AlgorithmSpec { return s.alg }

// Algorithm returns the selected algorithm.
func (s TileSpec) Algorithm() Algorithm { return s.alg.Algorithm }

// MaxIterRequested is the iteration limit this spec asks for.
func (s TileSpec) MaxIterRequested() uint32 { return s.alg.MaxIter }

// Colourer is the cosmetic colouring selection.
func (s TileSpec) Colourer() colouring.Selection { return s.alg.Colourer }

// YOffset returns this strip's row offset within a larger plot, if any.
func (s TileSpec) YOffset() (uint32, bool) { return s.yOffset, s.hasOffset }

// String is the canonical representation,
// e.g. "original,origin=0-0.5i,axes=-1+2i,max=256,col=linear-rainbow".
func (s TileSpec) String() string {
	return fmt.Sprintf("%s,origin=%s,axes=%s,max=%d,col=%s",
		s.alg.Algorithm, s.origin, s.axes, s.alg.MaxIter, s.alg.Colourer)
}

// AutoAdjustAspectRatio grows the real or imaginary axis so that pixels
// are square, keeping the centre fixed. It must be called before Split.
// It reports the new axes and whether anything changed.
func (s *TileSpec) AutoAdjustAspectRatio() (Point, bool, error) {
	axesAspect := s.axes.Re / s.axes.Im
	pixelsAspect := s.size.AspectRatio()
	ratio := pixelsAspect / axesAspect
	centre := s.Centre()

	switch {
	case axesAspect < pixelsAspect:
		// Too narrow: grow the real axis.
		if ratio <= 1.0 {
			return s.axes, false, fmt.Errorf("%w: computed aspect ratio %v (expected >1)", ErrLogic, ratio)
		}
		s.axes.Re *= ratio
	case axesAspect > pixelsAspect:
		// Too tall: grow the imaginary axis.
		if ratio >= 1.0 {
			return s.axes, false, fmt.Errorf("%w: computed aspect ratio %v (expected <1)", ErrLogic, ratio)
		}
		s.axes.Im /= ratio
	default:
		return s.axes, false, nil
	}
	s.origin = centre.Sub(s.axes.Scale(0.5))
	return s.axes, true, nil
}

// Split cuts the spec into full-width strips of rowHeight pixels for
// parallel plotting. If the height is not a multiple of rowHeight, one
// shorter remainder strip covers the top of the plot.
//
// The result is ordered top to bottom by strictly increasing y offset,
// starting at 0, so the remainder strip (if any) comes first.
func (s TileSpec) Split(rowHeight uint32) ([]TileSpec, error) {
	if rowHeight == 0 {
		return nil, errors.New("split: row height must be positive")
	}
	nWhole := s.size.Height / rowHeight
	lastHeight := s.size.Height % rowHeight

	stripSize := Dimensions{Width: s.size.Width, Height: rowHeight}
	stripIm := s.axes.Im * Scalar(rowHeight) / Scalar(s.size.Height)
	stripAxes := Point{Re: s.axes.Re, Im: stripIm}
	step := Point{Re: 0, Im: stripIm}

	// Strips are generated bottom up. Offsets count from the top, so the
	// counter starts at the full height and each strip subtracts its own
	// height before use; after the last whole strip it holds the
	// remainder height.
	working := s.origin
	offset := s.size.Height

	out := make([]TileSpec, 0, nWhole+1)
	for i := uint32(0); i < nWhole; i++ {
		offset -= rowHeight
		out = append(out, newTileSpecWithOffset(working, stripAxes, stripSize, offset, s.alg))
		Logger().Debug("split strip", "index", i, "origin", working, "y_offset", offset)
		working = working.Add(step)
	}
	if lastHeight != 0 {
		if offset != lastHeight {
			return nil, fmt.Errorf("%w: unexpected remainder strip height %d, expected %d", ErrLogic, offset, lastHeight)
		}
		// Take whatever is left of the overall axes rather than trusting
		// the accumulated sum.
		lastAxes := Point{Re: s.axes.Re, Im: s.origin.Im + s.axes.Im - working.Im}
		out = append(out, newTileSpecWithOffset(working, lastAxes,
			Dimensions{Width: s.size.Width, Height: lastHeight}, 0, s.alg))
	}

	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
