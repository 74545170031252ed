package fractal

import "math"

// prepareUpsideDown conjugates the origin for fractals that would
// otherwise appear upside down in this coordinate system.
func prepareUpsideDown(p *PointData) {
	c := p.Origin.Conj()
	p.Origin = c
	p.Value = c
	p.Iter = 1
}

// The variants below share Original's finishing formula through an
// embedded base value.

type mandelbar struct{ base original }

func (mandelbar) iterate(p *PointData) {
	c := p.Value.Conj()
	p.Value = c.Mul(c).Add(p.Origin)
	p.Iter++
}

func (m mandelbar) finish(p *PointData) { m.base.finish(p) }

type burningShip struct{ base original }

func (burningShip) iterate(p *PointData) {
	z := Point{Re: math.Abs(p.Value.Re), Im: math.Abs(p.Value.Im)}
	p.Value = z.Mul(z).Add(p.Origin)
	p.Iter++
}

func (b burningShip) finish(p *PointData) { b.base.finish(p) }

type celtic struct{ base original }

func (celtic) iterate(p *PointData) {
	// Only the real part of z² is folded.
	z2 := p.Value.Mul(p.Value)
	p.Value = Point{
		Re: math.Abs(z2.Re) + p.Origin.Re,
		Im: z2.Im + p.Origin.Im,
	}
	p.Iter++
}

func (c celtic) finish(p *PointData) { c.base.finish(p) }

type variant struct{ base original }

func (variant) iterate(p *PointData) {
	z2 := p.Value.Mul(p.Value)
	if p.Iter%2 == 1 {
		// odd iterations only
		z2.Re = math.Abs(z2.Re)
	}
	p.Value = z2.Add(p.Origin)
	p.Iter++
}

func (v variant) finish(p *PointData) { v.base.finish(p) }

type birdOfPrey struct{ base original }

func (birdOfPrey) iterate(p *PointData) {
	z := Point{Re: p.Value.Re, Im: math.Abs(p.Value.Im)}
	p.Value = z.Mul(z).Add(p.Origin)
	p.Iter++
}

func (b birdOfPrey) finish(p *PointData) { b.base.finish(p) }

type buffalo struct{ base original }

func (buffalo) iterate(p *PointData) {
	z := Point{Re: math.Abs(p.Value.Re), Im: math.Abs(p.Value.Im)}
	p.Value = z.Mul(z).Sub(z).Add(p.Origin)
	p.Iter++
}

func (b buffalo) finish(p *PointData) { b.base.finish(p) }
