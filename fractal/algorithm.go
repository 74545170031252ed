package fractal

import (
	"errors"
	"fmt"
	"strings"
)

// EscapeThresholdSq is the square of the standard escape-time threshold.
const EscapeThresholdSq Scalar = 4.0

// ErrUnknownAlgorithm is returned by ParseAlgorithm for names it does not recognise.
var ErrUnknownAlgorithm = errors.New("unknown fractal name")

// Algorithm selects one of a closed set of fractal formulas.
// It knows nothing about colouring, only maths on the complex plane.
//
// Dispatch is a switch over the selector rather than an interface call,
// so the per-pixel loop stays monomorphic.
type Algorithm uint8

const (
	// Original is the Mandelbrot set, z := z²+c.
	Original Algorithm = iota
	// Mandel3 is z := z³+c.
	Mandel3
	// Mandeldrop is the inverted set, z := z²+c using 1/z0.
	Mandeldrop
	// Mandeldrop3 is the inverted set, z := z³+c using 1/z0.
	Mandeldrop3
	// Mandelbar (Tricorn) is z := (z*)²+c.
	Mandelbar
	// BurningShip is z := (|Re z|+i|Im z|)²+c.
	BurningShip
	// Celtic is z := |Re(z²)| + i·Im(z²) + c.
	Celtic
	// Variant is z := z²+c with Re(z²) := |Re(z²)| on odd iterations.
	Variant
	// BirdOfPrey is z := (Re z + i|Im z|)²+c.
	BirdOfPrey
	// Buffalo is z := |z|² − |z| + c, with componentwise absolute value.
	Buffalo
	// Zero is a test algorithm that always outputs zero.
	Zero

	numAlgorithms
)

type algorithmInfo struct {
	name        string
	aliases     []string
	description string
	hidden      bool
	centre      Point
	axes        Point
}

var algorithmTable = [numAlgorithms]algorithmInfo{
	Original: {
		name: "original", aliases: []string{"m", "m2"},
		description: "The original Mandelbrot set, z:=z^2+c",
		centre:      Pt(-1.0, 0.0), axes: Pt(4.0, 4.0),
	},
	Mandel3: {
		name: "mandel3", aliases: []string{"m3"},
		description: "Mandelbrot^3 z:=z^3+c",
		centre:      Pt(0.0, 0.0), axes: Pt(4.0, 4.0),
	},
	Mandeldrop: {
		name: "mandeldrop", aliases: []string{"drop"},
		description: "Mandeldrop (inverted set) z:=z^2+c using 1/z0",
		centre:      Pt(1.25, 0.0), axes: Pt(8.0, 8.0),
	},
	Mandeldrop3: {
		name: "mandeldrop3", aliases: []string{"drop3"},
		description: "Mandeldrop (inverted set) z:=z^3+c using 1/z0",
		centre:      Pt(0.0, 0.0), axes: Pt(6.0, 6.0),
	},
	Mandelbar: {
		name: "mandelbar", aliases: []string{"bar"},
		description: "Mandelbar (Tricorn) z:=(z*)^2+c",
		centre:      Pt(0.0, 0.0), axes: Pt(5.0, 5.0),
	},
	BurningShip: {
		name: "burning-ship", aliases: []string{"ship"},
		description: "The Burning Ship z:=(|Re(z)|+i|Im(z)|)^2+c",
		centre:      Pt(-0.5, 0.5), axes: Pt(4.0, 4.0),
	},
	Celtic: {
		name:        "celtic",
		description: "The generalised Celtic z:=|Re(z^2)|+i.Im(z^2)+c",
		centre:      Pt(-1.0, 0.0), axes: Pt(4.0, 4.0),
	},
	Variant: {
		name:        "variant",
		description: "The Variant z:=z^2+c with Re(z):=|Re(z)| on odd iterations",
		centre:      Pt(-1.0, 0.0), axes: Pt(4.0, 4.0),
	},
	BirdOfPrey: {
		name: "bird-of-prey", aliases: []string{"bird"},
		description: "Bird of Prey z:=(Re(z)+i|Im(z)|)^2+c",
		centre:      Pt(0.0, 0.0), axes: Pt(5.0, 5.0),
	},
	Buffalo: {
		name:        "buffalo",
		description: "Buffalo z:=|z|^2-|z|+c",
		centre:      Pt(0.0, 0.0), axes: Pt(4.0, 4.0),
	},
	Zero: {
		name:        "zero",
		description: "Test algorithm that always outputs zero",
		hidden:      true,
		centre:      Pt(0.0, 0.0), axes: Pt(4.0, 4.0),
	},
}

func (a Algorithm) info() algorithmInfo {
	if a >= numAlgorithms {
		return algorithmInfo{name: fmt.Sprintf("algorithm(%d)", uint8(a))}
	}
	return algorithmTable[a]
}

// String returns the kebab-case name of the algorithm.
func (a Algorithm) String() string { return a.info().name }

// Description returns a one-line human description.
func (a Algorithm) Description() string { return a.info().description }

// DefaultCentre is the plot centre used when the caller gives no location.
func (a Algorithm) DefaultCentre() Point { return a.info().centre }

// DefaultAxes is the plot size used when the caller gives no size.
func (a Algorithm) DefaultAxes() Point { return a.info().axes }

// Algorithms lists the selectable algorithms, excluding test algorithms.
func Algorithms() []Algorithm {
	out := make([]Algorithm, 0, numAlgorithms)
	for a := Algorithm(0); a < numAlgorithms; a++ {
		if !algorithmTable[a].hidden {
			out = append(out, a)
		}
	}
	return out
}

// ParseAlgorithm looks up an algorithm by name or alias, case-insensitively.
func ParseAlgorithm(name string) (Algorithm, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for a := Algorithm(0); a < numAlgorithms; a++ {
		info := algorithmTable[a]
		if info.name == n {
			return a, nil
		}
		for _, alias := range info.aliases {
			if alias == n {
				return a, nil
			}
		}
	}
	return Original, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
}

// Prepare initialises a point before its first iteration.
// Some algorithms resolve the point immediately (cardioid check) or
// transform its origin (inversion, conjugation).
func (a Algorithm) Prepare(p *PointData) {
	switch a {
	case Original:
		original{}.prepare(p)
	case Mandeldrop, Mandeldrop3:
		prepareDrop(p)
	case BurningShip, BirdOfPrey, Buffalo:
		prepareUpsideDown(p)
	default:
		prepareDefault(p)
	}
}

// Iterate runs one step of the recurrence.
func (a Algorithm) Iterate(p *PointData) {
	switch a {
	case Original, Mandeldrop:
		original{}.iterate(p)
	case Mandel3, Mandeldrop3:
		mandel3{}.iterate(p)
	case Mandelbar:
		mandelbar{}.iterate(p)
	case BurningShip:
		burningShip{}.iterate(p)
	case Celtic:
		celtic{}.iterate(p)
	case Variant:
		variant{}.iterate(p)
	case BirdOfPrey:
		birdOfPrey{}.iterate(p)
	case Buffalo:
		buffalo{}.iterate(p)
	case Zero:
		zero{}.iterate(p)
	}
}

// Finish computes the smooth iteration count once a point has escaped.
func (a Algorithm) Finish(p *PointData) {
	switch a {
	case Original, Mandeldrop:
		original{}.finish(p)
	case Mandel3, Mandeldrop3:
		mandel3{}.finish(p)
	case Mandelbar:
		mandelbar{}.finish(p)
	case BurningShip:
		burningShip{}.finish(p)
	case Celtic:
		celtic{}.finish(p)
	case Variant:
		variant{}.finish(p)
	case BirdOfPrey:
		birdOfPrey{}.finish(p)
	case Buffalo:
		buffalo{}.finish(p)
	case Zero:
		zero{}.finish(p)
	}
}

// Pixel iterates a single point up to maxIter.
// A point that has not escaped by then is left unresolved, so a later
// call with a higher limit carries on from where this one stopped.
func (a Algorithm) Pixel(p *PointData, maxIter uint32) {
	switch a {
	case Original, Mandeldrop:
		pixel(original{}, p, maxIter)
	case Mandel3, Mandeldrop3:
		pixel(mandel3{}, p, maxIter)
	case Mandelbar:
		pixel(mandelbar{}, p, maxIter)
	case BurningShip:
		pixel(burningShip{}, p, maxIter)
	case Celtic:
		pixel(celtic{}, p, maxIter)
	case Variant:
		pixel(variant{}, p, maxIter)
	case BirdOfPrey:
		pixel(birdOfPrey{}, p, maxIter)
	case Buffalo:
		pixel(buffalo{}, p, maxIter)
	case Zero:
		pixel(zero{}, p, maxIter)
	}
}

// stepper is the per-formula pair used by pixel.
type stepper interface {
	iterate(p *PointData)
	finish(p *PointData)
}

// pixel is the shared escape-time loop.
// NaN never compares >= the threshold, so a non-finite point runs to maxIter.
func pixel[S stepper](s S, p *PointData, maxIter uint32) {
	for i := p.Iter; i < maxIter; i++ {
		s.iterate(p)
		if p.Value.NormSqr() >= EscapeThresholdSq {
			s.finish(p)
			return
		}
	}
}

// prepareDefault starts the orbit at the origin; the first iteration is free.
func prepareDefault(p *PointData) {
	p.Value = p.Origin
	p.Iter = 1
}

// zero always resolves to 0.
type zero struct{}

func (zero) iterate(p *PointData) { p.SetResult(0) }
func (zero) finish(*PointData)    {}
