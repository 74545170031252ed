package fractal

import (
	"slices"
	"strings"
	"testing"

	"github.com/marben/dist_brot/colouring"
)

func plotted(spec TileSpec) *Tile {
	t := NewTile(spec)
	t.Plot()
	return t
}

func TestTileOrientation(t *testing.T) {
	spec := NewTileSpecRaw(Pt(-2, -2), Pt(4, 4), Dimensions{Width: 4, Height: 4}, testAlg)
	tile := NewTile(spec)

	if got := tile.At(0, 0).Origin; got != Pt(-2, 2) {
		t.Errorf("top left pixel = %s, want -2+2i", got)
	}
	if got := tile.At(3, 3).Origin; got != Pt(1, -1) {
		t.Errorf("bottom right pixel = %s, want 1-1i", got)
	}
	for y, row := range tile.Rows() {
		if len(row) != 4 {
			t.Fatalf("row %d has %d points", y, len(row))
		}
		if y > 0 && row[0].Origin.Im >= tile.At(0, y-1).Origin.Im {
			t.Errorf("row %d is not below row %d", y, y-1)
		}
	}
}

func TestTilePlotIsDeterministic(t *testing.T) {
	spec := NewTileSpec(AtCentre(Pt(-0.75, 0.1)), AxesLength(Pt(0.5, 0.5)), Dimensions{Width: 32, Height: 32}, testAlg)
	a, b := plotted(spec), plotted(spec)
	if !a.IsComplete() || a.MaxIterPlotted() != 256 {
		t.Fatalf("plotted to %d", a.MaxIterPlotted())
	}
	for i := range a.Data() {
		if a.Data()[i] != b.Data()[i] {
			t.Fatalf("point %d differs: %+v vs %+v", i, a.Data()[i], b.Data()[i])
		}
	}
}

func TestTilePlotTwiceIsIdentical(t *testing.T) {
	spec := NewTileSpec(AtCentre(Pt(-0.75, 0.1)), AxesLength(Pt(0.5, 0.5)), Dimensions{Width: 24, Height: 16}, testAlg)
	tile := plotted(spec)
	first := slices.Clone(tile.Data())

	tile.Plot()
	if tile.MaxIterPlotted() != spec.MaxIterRequested() {
		t.Errorf("plotted to %d after a second Plot", tile.MaxIterPlotted())
	}
	for i, p := range tile.Data() {
		if p != first[i] {
			t.Fatalf("point %d changed on the second Plot: %+v vs %+v", i, first[i], p)
		}
	}
}

func TestTilePlotToExtends(t *testing.T) {
	spec := NewTileSpec(AtCentre(Pt(-0.75, 0.1)), AxesLength(Pt(0.5, 0.5)), Dimensions{Width: 16, Height: 16}, testAlg)
	full := plotted(spec)

	partial := NewTile(spec)
	partial.PlotTo(64)
	if partial.IsComplete() {
		t.Fatal("partial tile claims to be complete")
	}
	partial.PlotTo(256)
	if !partial.IsComplete() {
		t.Fatal("extended tile is not complete")
	}
	for i := range full.Data() {
		if full.Data()[i] != partial.Data()[i] {
			t.Fatalf("point %d differs after extending", i)
		}
	}
}

func TestTileCSV(t *testing.T) {
	spec := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), Dimensions{Width: 3, Height: 2}, NewAlgorithmSpec(Zero, 10, colouring.White))
	tile := plotted(spec)
	if got, want := tile.CSV(0), "0,0,0\n0,0,0\n"; got != want {
		t.Errorf("CSV = %q, want %q", got, want)
	}
	if got := tile.CSV(2); !strings.HasPrefix(got, "[0+1i, 0+1i, 1, 0]") {
		t.Errorf("debug CSV = %q", got)
	}
	if got := tile.InfoString(); !strings.HasSuffix(got, "maxiter=10") || !strings.HasPrefix(got, "zero,") {
		t.Errorf("InfoString = %q", got)
	}
}

func TestJoinTiles(t *testing.T) {
	spec := NewTileSpec(AtCentre(Pt(-0.5, 0)), AxesLength(Pt(3, 3)), Dimensions{Width: 20, Height: 40}, NewAlgorithmSpec(Original, 64, colouring.LinearRainbow))
	whole := NewTile(spec)

	for _, rows := range []uint32{10, 7} {
		specs, err := spec.Split(rows)
		if err != nil {
			t.Fatal(err)
		}
		strips := make([]*Tile, len(specs))
		for i, s := range specs {
			strips[i] = plotted(s)
		}
		strips[len(strips)-1].PlotTo(128)

		joined, err := JoinTiles(spec, strips)
		if err != nil {
			t.Fatalf("rows %d: %v", rows, err)
		}
		if joined.MaxIterPlotted() != 64 {
			t.Errorf("rows %d: joined maxIterPlotted = %d, want least of strips", rows, joined.MaxIterPlotted())
		}
		for _, s := range strips {
			off, _ := s.Spec().YOffset()
			for y, row := range s.Rows() {
				for x, p := range row {
					if joined.At(x, int(off)+y) != p {
						t.Fatalf("rows %d: pixel (%d,%d) not copied", rows, x, int(off)+y)
					}
				}
			}
		}
		for i, p := range joined.Data() {
			if !nearPt(p.Origin, whole.Data()[i].Origin) {
				t.Fatalf("rows %d: point %d at %s, want %s", rows, i, p.Origin, whole.Data()[i].Origin)
			}
		}
	}
}

func TestJoinTilesErrors(t *testing.T) {
	spec := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), Dimensions{Width: 4, Height: 8}, testAlg)
	specs, err := spec.Split(4)
	if err != nil {
		t.Fatal(err)
	}
	top, bottom := NewTile(specs[0]), NewTile(specs[1])
	narrow := NewTile(newTileSpecWithOffset(Pt(0, 0), Pt(1, 1), Dimensions{Width: 3, Height: 4}, 4, testAlg))
	tooLow := NewTile(specs[1].WithYOffset(6))
	overlapping := NewTile(specs[1].WithYOffset(2))

	tests := []struct {
		name  string
		tiles []*Tile
	}{
		{"empty", nil},
		{"missing strip", []*Tile{top}},
		{"no offset", []*Tile{NewTile(spec)}},
		{"wrong width", []*Tile{top, narrow}},
		{"overflow", []*Tile{top, tooLow}},
		// Row counts add up to the plot height but leave a gap.
		{"duplicate strip", []*Tile{top, top}},
		{"overlap", []*Tile{top, overlapping}},
	}
	for _, tt := range tests {
		if _, err := JoinTiles(spec, tt.tiles); err == nil {
			t.Errorf("%s: JoinTiles succeeded", tt.name)
		}
	}
	if _, err := JoinTiles(spec, []*Tile{top, bottom}); err != nil {
		t.Errorf("good join failed: %v", err)
	}
}

func TestTileFromData(t *testing.T) {
	spec := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), Dimensions{Width: 4, Height: 2}, testAlg)
	src := plotted(spec)

	got, err := TileFromData(spec, src.Data(), src.MaxIterPlotted())
	if err != nil {
		t.Fatal(err)
	}
	if !got.IsComplete() || got.At(3, 1) != src.At(3, 1) {
		t.Error("rebuilt tile differs from its source")
	}
	if _, err := TileFromData(spec, src.Data()[1:], 256); err == nil {
		t.Error("short buffer accepted")
	}
}

func TestTileWithSpec(t *testing.T) {
	dim := Dimensions{Width: 4, Height: 2}
	spec := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), dim, testAlg)
	tile := plotted(spec)

	recoloured := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), dim, NewAlgorithmSpec(Original, 256, colouring.Mandy)).WithYOffset(12)
	out, err := tile.WithSpec(recoloured)
	if err != nil {
		t.Fatal(err)
	}
	if out.Spec().Colourer() != colouring.Mandy {
		t.Errorf("colourer = %s", out.Spec().Colourer())
	}
	if off, ok := out.Spec().YOffset(); !ok || off != 12 {
		t.Errorf("offset = %d, %v", off, ok)
	}
	if &out.Data()[0] != &tile.Data()[0] {
		t.Error("WithSpec copied the buffer")
	}

	other := NewTileSpecRaw(Pt(0, 0), Pt(1, 1), dim, NewAlgorithmSpec(Original, 512, colouring.Mandy))
	if _, err := tile.WithSpec(other); err == nil {
		t.Error("WithSpec accepted a different iteration limit")
	}
}

func BenchmarkTilePlot(b *testing.B) {
	spec := NewTileSpec(AtCentre(Pt(-0.75, 0.1)), AxesLength(Pt(0.5, 0.5)), Dimensions{Width: 64, Height: 64}, NewAlgorithmSpec(Original, 512, colouring.LinearRainbow))
	for b.Loop() {
		plotted(spec)
	}
}
