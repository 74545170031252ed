package fractal

import "math"

var ln3 = math.Log(3)

// smoothCount is the fractional escape count iter − ln(ln|z|)/ln(degree).
// ln|z| is taken as 0.5·ln|z|² to skip the square root.
// See http://linas.org/art-gallery/escape/escape.html
func smoothCount(p *PointData, lnDegree float64) float32 {
	return float32(float64(p.Iter) - math.Log(math.Log(p.Value.NormSqr())*0.5)/lnDegree)
}

// original is z := z²+c.
type original struct{}

func (original) prepare(p *PointData) {
	prepareDefault(p)
	// Main cardioid and period-2 bulb
	c1 := p.Origin.Re - 0.25
	y2 := p.Origin.Im * p.Origin.Im
	q := c1*c1 + y2
	p1 := p.Origin.Re + 1.0
	if q*(q+c1) <= 0.25*y2 || p1*p1+y2 <= 0.0625 {
		p.MarkInfinite()
	}
}

func (original) iterate(p *PointData) {
	p.Value = p.Value.Mul(p.Value).Add(p.Origin)
	p.Iter++
}

func (o original) finish(p *PointData) {
	// A couple of extra iterations shrink the error term.
	o.iterate(p)
	o.iterate(p)
	p.SetResult(smoothCount(p, math.Ln2))
}

// mandel3 is z := z³+c.
type mandel3 struct{}

func (mandel3) iterate(p *PointData) {
	// Unrolled z*z*z; measurably faster than the complex multiply.
	re, im := p.Value.Re, p.Value.Im
	re2, im2 := re*re, im*im
	p.Value.Re = re*re2 - 3.0*re*im2 + p.Origin.Re
	p.Value.Im = 3.0*im*re2 - im*im2 + p.Origin.Im
	p.Iter++
}

func (m mandel3) finish(p *PointData) {
	m.iterate(p)
	m.iterate(p)
	// Stay in float64 until the end; norm² overflows much sooner in float32.
	p.SetResult(smoothCount(p, ln3))
}

// prepareDrop maps the origin z0 to 1/z0 and starts from there.
// Mandeldrop and Mandeldrop3 then iterate as Original and Mandel3.
func prepareDrop(p *PointData) {
	inv := p.Origin.Inv()
	p.Origin = inv
	p.Value = inv
	p.Iter = 1
}
