package fractal

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Scalar is one dimension of a fractal.
type Scalar = float64

// Point is a value on the complex plane.
type Point struct {
	Re, Im Scalar
}

// Pt is shorthand for Point{re, im}.
func Pt(re, im Scalar) Point {
	return Point{Re: re, Im: im}
}

func (p Point) Add(q Point) Point {
	return Point{Re: p.Re + q.Re, Im: p.Im + q.Im}
}

func (p Point) Sub(q Point) Point {
	return Point{Re: p.Re - q.Re, Im: p.Im - q.Im}
}

func (p Point) Mul(q Point) Point {
	return Point{
		Re: p.Re*q.Re - p.Im*q.Im,
		Im: p.Re*q.Im + p.Im*q.Re,
	}
}

// Scale multiplies both components by k.
func (p Point) Scale(k Scalar) Point {
	return Point{Re: p.Re * k, Im: p.Im * k}
}

// Conj returns the complex conjugate.
func (p Point) Conj() Point {
	return Point{Re: p.Re, Im: -p.Im}
}

// Inv returns 1/p.
func (p Point) Inv() Point {
	n := p.NormSqr()
	return Point{Re: p.Re / n, Im: -p.Im / n}
}

// NormSqr returns |p|².
func (p Point) NormSqr() Scalar {
	return p.Re*p.Re + p.Im*p.Im
}

// Norm returns |p|.
func (p Point) Norm() Scalar {
	return math.Hypot(p.Re, p.Im)
}

// IsFinite reports whether neither component is infinite or NaN.
func (p Point) IsFinite() bool {
	return !math.IsInf(p.Re, 0) && !math.IsNaN(p.Re) && !math.IsInf(p.Im, 0) && !math.IsNaN(p.Im)
}

// String formats the point as re±imi, e.g. "0-0.5i" or "-1+2i".
func (p Point) String() string {
	sign := "+"
	if math.Signbit(p.Im) && !math.IsNaN(p.Im) {
		sign = "-"
	}
	return formatScalar(p.Re) + sign + formatScalar(math.Abs(p.Im)) + "i"
}

func formatScalar(s Scalar) string {
	return strconv.FormatFloat(s, 'g', -1, 64)
}

// ParsePoint parses a complex number written as N, Ni or N±Ni.
// A bare "i" coefficient is accepted ("-i", "1+i").
func ParsePoint(s string) (Point, error) {
	in := strings.TrimSpace(s)
	in = strings.TrimSuffix(strings.TrimPrefix(in, "("), ")")
	if in == "" {
		return Point{}, fmt.Errorf("parse point %q: empty", s)
	}
	if strings.HasSuffix(in, "i") {
		head := in[:len(in)-1]
		if head == "" || strings.HasSuffix(head, "+") || strings.HasSuffix(head, "-") {
			in = head + "1i"
		}
	}
	c, err := strconv.ParseComplex(in, 128)
	if err != nil {
		return Point{}, fmt.Errorf("parse point %q: %w", s, err)
	}
	return Point{Re: real(c), Im: imag(c)}, nil
}
