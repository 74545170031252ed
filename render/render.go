// Package render turns plotted tiles into output files.
package render

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/marben/dist_brot/fractal"
)

// ErrTilesOutOfOrder is returned when strips are not in y offset order.
var ErrTilesOutOfOrder = errors.New("tiles out of order")

// Format selects an output file type.
type Format uint8

const (
	// PNG is a Portable Network Graphics image.
	PNG Format = iota
	// AsciiArt is rough and ready ASCII art (.txt).
	AsciiArt
	// CSV is comma separated iteration counts, one line per row.
	CSV

	numFormats
)

var formatTable = [numFormats]struct {
	name, ext, description string
	aliases                []string
}{
	PNG:      {name: "png", ext: "png", description: "Portable Network Graphics (.png) file"},
	AsciiArt: {name: "ascii-art", ext: "txt", description: "Good old ASCII art (.txt)", aliases: []string{"aa"}},
	CSV:      {name: "csv", ext: "csv", description: "Comma Separated Values, one line per line of plot (.csv)"},
}

func (f Format) String() string {
	if f >= numFormats {
		return fmt.Sprintf("format(%d)", uint8(f))
	}
	return formatTable[f].name
}

// Description returns a one-line human description.
func (f Format) Description() string {
	if f >= numFormats {
		return ""
	}
	return formatTable[f].description
}

// Formats lists all output formats.
func Formats() []Format {
	return []Format{PNG, AsciiArt, CSV}
}

// ParseFormat looks up a format by name or alias.
func ParseFormat(name string) (Format, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for f := Format(0); f < numFormats; f++ {
		if formatTable[f].name == n {
			return f, nil
		}
		for _, a := range formatTable[f].aliases {
			if a == n {
				return f, nil
			}
		}
	}
	return PNG, fmt.Errorf("unknown output type %q", name)
}

// FormatFromFilename picks a format from a file extension.
func FormatFromFilename(filename string) (Format, bool) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	for f := Format(0); f < numFormats; f++ {
		if formatTable[f].ext == ext {
			return f, true
		}
	}
	return PNG, false
}

// Options tune rendering.
type Options struct {
	// Caption stamps the plot description onto PNG output.
	Caption bool
	// Downsample shrinks PNG output by this integer factor with a
	// Catmull-Rom filter. Values below 2 disable it.
	Downsample int
	// Debug is the CSV detail level (see fractal.PointData.Describe).
	Debug int
}

// CheckOrdering reports whether strips are in strictly increasing y offset
// order. Tiles without an offset count as offset 0.
func CheckOrdering(tiles []*fractal.Tile) bool {
	for i := 1; i < len(tiles); i++ {
		a, _ := tiles[i-1].Spec().YOffset()
		b, _ := tiles[i].Spec().YOffset()
		if a >= b {
			return false
		}
	}
	return true
}

// Render writes tiles, which together make up spec, to w.
func Render(w io.Writer, f Format, spec fractal.TileSpec, tiles []*fractal.Tile, opts Options) error {
	if !CheckOrdering(tiles) {
		return ErrTilesOutOfOrder
	}
	switch f {
	case PNG:
		return writePNG(w, spec, tiles, opts)
	case AsciiArt:
		return writeASCII(w, tiles)
	case CSV:
		return writeCSV(w, tiles, opts.Debug)
	default:
		return fmt.Errorf("render: unsupported format %s", f)
	}
}

// RenderFile writes tiles to filename; "-" means standard output.
func RenderFile(filename string, f Format, spec fractal.TileSpec, tiles []*fractal.Tile, opts Options) (err error) {
	var out io.Writer = os.Stdout
	if filename != "-" {
		file, err := os.Create(filename)
		if err != nil {
			return fmt.Errorf("create %q: %w", filename, err)
		}
		defer func() {
			if cerr := file.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close %q: %w", filename, cerr)
			}
		}()
		out = file
	}
	bw := bufio.NewWriter(out)
	if err := Render(bw, f, spec, tiles, opts); err != nil {
		return fmt.Errorf("render %s: %w", f, err)
	}
	return bw.Flush()
}

// Iterations returns the count a renderer should colour for p.
// A point still alive at the plotted limit is treated as never escaping.
func Iterations(p fractal.PointData, maxIterPlotted uint32) float32 {
	if !p.Done && p.Iter == maxIterPlotted {
		return float32(math.Inf(1))
	}
	return p.Iterations()
}

// Image colours tiles into an RGBA image the size of spec. Each strip is
// placed at its y offset; a tile without one is placed at the top.
func Image(spec fractal.TileSpec, tiles []*fractal.Tile) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(spec.Width()), int(spec.Height())))
	for _, t := range tiles {
		DrawTile(img, t)
	}
	return img
}

// DrawTile colours one tile into img at the tile's y offset.
func DrawTile(img *image.RGBA, t *fractal.Tile) {
	off, _ := t.Spec().YOffset()
	col := t.Spec().Colourer()
	maxIter := t.MaxIterPlotted()
	for y, row := range t.Rows() {
		for x, p := range row {
			img.SetRGBA(x, int(off)+y, col.Colour(Iterations(p, maxIter), maxIter))
		}
	}
}
