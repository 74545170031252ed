package render

import (
	"bufio"
	"io"
	"math"

	"github.com/marben/dist_brot/fractal"
)

// asciiCharset runs from "escaped at once" to "never escaped".
const asciiCharset = " .,:obOB%#"

// writeASCII spreads the finite counts of all tiles evenly across the
// charset, so strips of one plot share a scale. Points that never escaped
// take the last character.
func writeASCII(w io.Writer, tiles []*fractal.Tile) error {
	least, most := math.Inf(1), math.Inf(-1)
	for _, t := range tiles {
		maxIter := t.MaxIterPlotted()
		for _, p := range t.Data() {
			it := float64(Iterations(p, maxIter))
			if math.IsInf(it, 0) || math.IsNaN(it) {
				continue
			}
			least = min(least, it)
			most = max(most, it)
		}
	}
	step := (most - least) / float64(len(asciiCharset)-1)

	bw := bufio.NewWriter(w)
	for _, t := range tiles {
		maxIter := t.MaxIterPlotted()
		for _, row := range t.Rows() {
			for _, p := range row {
				bw.WriteByte(asciiChar(float64(Iterations(p, maxIter)), least, step))
			}
			bw.WriteByte('\n')
		}
	}
	return bw.Flush()
}

func asciiChar(it, least, step float64) byte {
	last := len(asciiCharset) - 1
	switch {
	case math.IsInf(it, 1) || math.IsNaN(it):
		return asciiCharset[last]
	case step <= 0 || math.IsInf(step, 0):
		// Every finite point has the same count.
		return asciiCharset[0]
	}
	i := int((it - least) / step)
	return asciiCharset[min(max(i, 0), last)]
}

func writeCSV(w io.Writer, tiles []*fractal.Tile, debug int) error {
	for _, t := range tiles {
		if _, err := io.WriteString(w, t.CSV(debug)); err != nil {
			return err
		}
	}
	return nil
}
