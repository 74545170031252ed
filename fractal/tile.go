package fractal

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"strings"
)

// Tile is the pixel buffer for one TileSpec.
//
// The buffer is row-major and TOP-LEFT oriented: the first row is the
// largest imaginary coordinate, not the origin row.
type Tile struct {
	spec           TileSpec
	data           []PointData
	maxIterPlotted uint32
}

// NewTile allocates the buffer for spec and prepares every point.
func NewTile(spec TileSpec) *Tile {
	t := newTileInternal(spec)
	t.prepare()
	return t
}

// TileFromData wraps a buffer plotted elsewhere, such as one received from
// a remote worker. The buffer must be row-major, top-left oriented and
// exactly width×height long.
func TileFromData(spec TileSpec, data []PointData, maxIterPlotted uint32) (*Tile, error) {
	if want := int(spec.Width()) * int(spec.Height()); len(data) != want {
		return nil, fmt.Errorf("tile for %s needs %d points, got %d", spec, want, len(data))
	}
	return &Tile{spec: spec, data: data, maxIterPlotted: maxIterPlotted}, nil
}

func newTileInternal(spec TileSpec) *Tile {
	return &Tile{
		spec: spec,
		data: make([]PointData, int(spec.Width())*int(spec.Height())),
	}
}

// prepare assigns each pixel its coordinate, top row first, and runs the
// algorithm's pre-iteration step.
func (t *Tile) prepare() {
	step := t.spec.PixelSize()
	top := t.spec.TopLeft()
	alg := t.spec.Algorithm()
	w := int(t.spec.Width())

	for i := range t.data {
		x, y := i%w, i/w
		p := &t.data[i]
		p.Origin = Point{
			Re: top.Re + Scalar(x)*step.Re,
			Im: top.Im - Scalar(y)*step.Im, // stepping down the imaginary axis
		}
		alg.Prepare(p)
	}
}

// Plot iterates every unresolved point up to the spec's iteration limit.
func (t *Tile) Plot() {
	t.PlotTo(t.spec.MaxIterRequested())
}

// PlotTo iterates every unresolved point up to maxIter. Points already
// resolved are left alone, so calling again with a higher limit extends
// the previous work.
func (t *Tile) PlotTo(maxIter uint32) {
	alg := t.spec.Algorithm()
	for i := range t.data {
		if p := &t.data[i]; !p.Done {
			alg.Pixel(p, maxIter)
		}
	}
	t.maxIterPlotted = maxIter
}

// WithSpec returns a tile sharing t's buffer but described by spec, which
// must be cache-equivalent to t's own. Used to hand out a cached tile
// under a request's colourer and y offset.
func (t *Tile) WithSpec(spec TileSpec) (*Tile, error) {
	if !spec.Equivalent(t.spec) {
		return nil, fmt.Errorf("tile for %s cannot serve %s", t.spec, spec)
	}
	return &Tile{spec: spec, data: t.data, maxIterPlotted: t.maxIterPlotted}, nil
}

// Spec returns the spec this tile was built from.
func (t *Tile) Spec() TileSpec { return t.spec }

// MaxIterPlotted is the iteration limit of the last Plot, or 0.
func (t *Tile) MaxIterPlotted() uint32 { return t.maxIterPlotted }

// IsComplete reports whether the tile was plotted to its requested limit.
func (t *Tile) IsComplete() bool {
	return t.maxIterPlotted == t.spec.MaxIterRequested()
}

// Data returns the row-major, top-left oriented buffer.
// Callers must not modify it.
func (t *Tile) Data() []PointData { return t.data }

// At returns the point at column x, row y (row 0 is the top).
func (t *Tile) At(x, y int) PointData {
	return t.data[y*int(t.spec.Width())+x]
}

// Rows yields each row of the buffer from the top.
func (t *Tile) Rows() iter.Seq2[int, []PointData] {
	return func(yield func(int, []PointData) bool) {
		w := int(t.spec.Width())
		for y := 0; y < int(t.spec.Height()); y++ {
			if !yield(y, t.data[y*w:(y+1)*w]) {
				return
			}
		}
	}
}

// InfoString describes the tile for captions and logs.
func (t *Tile) InfoString() string {
	return fmt.Sprintf("%s maxiter=%d", t.spec, t.maxIterPlotted)
}

// String renders the tile as CSV, one line per row.
func (t *Tile) String() string {
	return t.CSV(0)
}

// CSV renders the tile as CSV at the given debug level (see PointData.Describe).
func (t *Tile) CSV(debug int) string {
	var sb strings.Builder
	for _, row := range t.Rows() {
		for x, p := range row {
			if x > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(p.Describe(debug))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// JoinTiles reassembles the strips of a split plot into one tile for spec.
// Each strip must carry its y offset. The joined tile counts as plotted
// only as far as its least-plotted strip.
func JoinTiles(spec TileSpec, tiles []*Tile) (*Tile, error) {
	if len(tiles) == 0 {
		return nil, errors.New("join: no tiles given")
	}
	out := newTileInternal(spec)
	out.maxIterPlotted = tiles[0].maxIterPlotted

	w := int(spec.Width())
	covered := make([]bool, spec.Height())
	for _, t := range tiles {
		off, ok := t.spec.YOffset()
		if !ok {
			return nil, fmt.Errorf("join: strip %s has no offset", t.spec)
		}
		if t.spec.Width() != spec.Width() {
			return nil, fmt.Errorf("join: strip width %d does not match plot width %d", t.spec.Width(), spec.Width())
		}
		if off+t.spec.Height() > spec.Height() {
			return nil, fmt.Errorf("join: strip at offset %d height %d overflows plot height %d", off, t.spec.Height(), spec.Height())
		}
		for y := off; y < off+t.spec.Height(); y++ {
			if covered[y] {
				return nil, fmt.Errorf("join: row %d is covered by more than one strip", y)
			}
			covered[y] = true
		}
		copy(out.data[int(off)*w:], t.data)
		out.maxIterPlotted = min(out.maxIterPlotted, t.maxIterPlotted)
	}
	if y := slices.Index(covered, false); y >= 0 {
		return nil, fmt.Errorf("join: row %d of %d is not covered", y, spec.Height())
	}
	return out, nil
}
