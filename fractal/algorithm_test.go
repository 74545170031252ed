package fractal

import (
	"errors"
	"math"
	"testing"
)

func plotPoint(a Algorithm, origin Point, maxIter uint32) PointData {
	p := NewPointData(origin)
	a.Prepare(&p)
	if !p.Done {
		a.Pixel(&p, maxIter)
	}
	return p
}

func TestKnownInSetPoint(t *testing.T) {
	// In the set, but outside the cardioid and period-2 bulb.
	p := plotPoint(Original, Pt(-0.1586536, 1.034804), 512)
	if p.Done {
		t.Fatalf("point resolved to %v, want unresolved", p.Result)
	}
	if p.Iter != 512 {
		t.Errorf("iter = %d, want 512", p.Iter)
	}
}

func TestKnownEscapingPoint(t *testing.T) {
	p := plotPoint(Original, Pt(2, 2), 512)
	if !p.Done {
		t.Fatal("point did not escape")
	}
	if math.IsInf(float64(p.Result), 0) || math.IsNaN(float64(p.Result)) {
		t.Errorf("result = %v, want finite", p.Result)
	}
	if p.Iter > 5 {
		t.Errorf("took %d iterations, want a handful", p.Iter)
	}
}

func TestCardioidShortCircuit(t *testing.T) {
	for _, c := range []Point{Pt(0, 0), Pt(-1, 0), Pt(0.2, 0.3)} {
		p := NewPointData(c)
		Original.Prepare(&p)
		if !p.Done || !math.IsInf(float64(p.Result), 1) {
			t.Errorf("%s: prepare gave done=%v result=%v, want +Inf", c, p.Done, p.Result)
		}
	}
}

func TestNaNRunsToMaxIter(t *testing.T) {
	// NaN never compares >= the escape threshold. Callers must validate;
	// this documents what happens when they do not.
	for _, a := range Algorithms() {
		p := plotPoint(a, Pt(math.NaN(), 0), 100)
		if p.Done {
			t.Errorf("%s: NaN point resolved to %v", a, p.Result)
		}
		if p.Iter != 100 {
			t.Errorf("%s: NaN point stopped at %d, want 100", a, p.Iter)
		}
	}
}

func TestEveryAlgorithmEscapesFarAway(t *testing.T) {
	for _, a := range Algorithms() {
		p := plotPoint(a, Pt(3, 3), 64)
		if a == Mandeldrop || a == Mandeldrop3 {
			// 1/(3+3i) lies inside the set, so invert a point near zero instead.
			p = plotPoint(a, Pt(0.01, 0.01), 64)
		}
		if !p.Done {
			t.Errorf("%s: did not escape", a)
			continue
		}
		if r := float64(p.Result); math.IsInf(r, 0) || math.IsNaN(r) {
			t.Errorf("%s: result = %v, want finite", a, r)
		}
	}
}

func TestMandel3InSet(t *testing.T) {
	p := plotPoint(Mandel3, Pt(0, 0.1), 512)
	if p.Done {
		t.Errorf("point resolved to %v, want unresolved", p.Result)
	}
}

func TestPixelResumes(t *testing.T) {
	// Just above the neck of the set; escapes after roughly 300 iterations.
	c := Pt(-0.75, 0.01)
	once := plotPoint(Original, c, 1000)

	twice := plotPoint(Original, c, 50)
	if twice.Done {
		t.Skip("point escaped too early to test resumption")
	}
	Original.Pixel(&twice, 1000)
	if once != twice {
		t.Errorf("resumed = %+v, want %+v", twice, once)
	}
}

func TestZero(t *testing.T) {
	p := plotPoint(Zero, Pt(0.3, 0.3), 10)
	if !p.Done || p.Result != 0 {
		t.Errorf("zero gave done=%v result=%v", p.Done, p.Result)
	}
}

func TestUpsideDownConjugates(t *testing.T) {
	for _, a := range []Algorithm{BurningShip, BirdOfPrey, Buffalo} {
		p := NewPointData(Pt(0.5, 0.25))
		a.Prepare(&p)
		if p.Origin != Pt(0.5, -0.25) || p.Value != p.Origin || p.Iter != 1 {
			t.Errorf("%s: prepared %+v", a, p)
		}
	}
	p := NewPointData(Pt(0, 2))
	Mandeldrop.Prepare(&p)
	if p.Origin != Pt(0, -0.5) {
		t.Errorf("mandeldrop origin = %s, want 0-0.5i", p.Origin)
	}
}

func TestVariantFoldsOddIterations(t *testing.T) {
	// z = 1i: z² = -1. Iter 1 is odd so Re is folded: z := 1 + c.
	p := PointData{Origin: Pt(0, 0), Value: Pt(0, 1), Iter: 1}
	Variant.Iterate(&p)
	if p.Value != Pt(1, 0) {
		t.Errorf("odd step = %s, want 1+0i", p.Value)
	}
	p = PointData{Origin: Pt(0, 0), Value: Pt(0, 1), Iter: 2}
	Variant.Iterate(&p)
	if p.Value != Pt(-1, 0) {
		t.Errorf("even step = %s, want -1+0i", p.Value)
	}
}

func TestCelticFoldsRealOnly(t *testing.T) {
	// (1-2i)² = -3-4i.
	p := PointData{Origin: Pt(0, 0), Value: Pt(1, -2), Iter: 1}
	Celtic.Iterate(&p)
	if p.Value != Pt(3, -4) {
		t.Errorf("celtic step = %s, want 3-4i", p.Value)
	}
}

func TestParseAlgorithm(t *testing.T) {
	tests := []struct {
		in   string
		want Algorithm
	}{
		{"original", Original},
		{"m", Original},
		{"M2", Original},
		{"m3", Mandel3},
		{"drop", Mandeldrop},
		{"drop3", Mandeldrop3},
		{"bar", Mandelbar},
		{"ship", BurningShip},
		{"burning-ship", BurningShip},
		{"bird", BirdOfPrey},
		{"celtic", Celtic},
		{"variant", Variant},
		{"buffalo", Buffalo},
		{"zero", Zero},
	}
	for _, tt := range tests {
		got, err := ParseAlgorithm(tt.in)
		if err != nil || got != tt.want {
			t.Errorf("ParseAlgorithm(%q) = %s, %v; want %s", tt.in, got, err, tt.want)
		}
	}
	if _, err := ParseAlgorithm("julia"); !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("unknown name err = %v", err)
	}
}

func TestAlgorithmsHidesZero(t *testing.T) {
	for _, a := range Algorithms() {
		if a == Zero {
			t.Error("Algorithms() lists the zero test algorithm")
		}
		if a.String() == "" || a.Description() == "" {
			t.Errorf("algorithm %d lacks a name or description", a)
		}
		if ax := a.DefaultAxes(); ax.Re <= 0 || ax.Im <= 0 {
			t.Errorf("%s default axes = %s", a, ax)
		}
	}
}

func BenchmarkPixelInSet(b *testing.B) {
	for b.Loop() {
		plotPoint(Original, Pt(-0.1586536, 1.034804), 512)
	}
}

func BenchmarkPixelMandel3(b *testing.B) {
	for b.Loop() {
		plotPoint(Mandel3, Pt(0, 0.1), 512)
	}
}
