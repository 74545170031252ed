package fractal

import (
	"fmt"
	"math"
	"strconv"
)

// PointData is everything we know about a plotted point.
type PointData struct {
	// Iter is the number of iterations this point has seen.
	Iter uint32
	// Origin is the fixed coordinate of this point.
	Origin Point
	// Value is the working value; meaningless once Done is set.
	Value Point
	// Result holds the smooth iteration count when Done is set.
	// +Inf marks a point known never to escape.
	Result float32
	// Done reports whether Result is valid.
	Done bool
}

// NewPointData returns an unprepared point at origin.
func NewPointData(origin Point) PointData {
	return PointData{Origin: origin}
}

// SetResult records the smooth iteration count.
func (p *PointData) SetResult(r float32) {
	p.Result = r
	p.Done = true
}

// MarkInfinite records that this point never escapes.
func (p *PointData) MarkInfinite() {
	p.SetResult(float32(math.Inf(1)))
}

// Iterations returns the result if we have it, otherwise the working
// iteration count.
func (p PointData) Iterations() float32 {
	if p.Done {
		return p.Result
	}
	return float32(p.Iter)
}

func (p PointData) String() string {
	return strconv.FormatFloat(float64(p.Iterations()), 'g', -1, 32)
}

// Describe formats the point at the given debug level:
// 0 prints iterations, 1 adds the origin, 2 and above print the full state.
func (p PointData) Describe(debug int) string {
	switch debug {
	case 0:
		return p.String()
	case 1:
		return fmt.Sprintf("[%s, %s]", p.Origin, p.resultString())
	default:
		return fmt.Sprintf("[%s, %s, %d, %s]", p.Origin, p.Value, p.Iter, p.resultString())
	}
}

func (p PointData) resultString() string {
	if !p.Done {
		return "-"
	}
	return strconv.FormatFloat(float64(p.Result), 'g', -1, 32)
}
