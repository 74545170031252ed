// Package colouring maps smooth iteration counts to colours.
// It knows nothing about fractals; +Inf means "never escaped".
package colouring

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// ErrUnknownColourer is returned by Parse for names it does not recognise.
var ErrUnknownColourer = errors.New("unknown colourer name")

// Selection picks a colouring algorithm.
type Selection uint8

const (
	// LinearRainbow cycles the hue every 32 iterations.
	LinearRainbow Selection = iota
	// LogRainbow cycles the hue logarithmically.
	LogRainbow
	// SqrtRainbow cycles the hue by square root.
	SqrtRainbow
	// HsvGradient sweeps hue with the proportion of max iterations used.
	HsvGradient
	// LchGradient is a perceptually even gradient in the LCH colour space.
	LchGradient
	// Mandy is the colouring from rjk's mandy.
	Mandy
	// WhiteFade is fanf's white fade.
	WhiteFade
	// BlackFade is fanf's black fade.
	BlackFade
	// Monochrome is fanf's monochrome shade.
	Monochrome
	// MonochromeInverted is Monochrome, inverted.
	MonochromeInverted
	// OneLoneCoder cycles three phase-shifted sines.
	OneLoneCoder
	// White is a test colourer that paints everything white.
	White

	numSelections
)

type selectionInfo struct {
	name        string
	aliases     []string
	description string
	hidden      bool
}

var selectionTable = [numSelections]selectionInfo{
	LinearRainbow:      {name: "linear-rainbow", description: "Cyclic rainbow"},
	LogRainbow:         {name: "log-rainbow", description: "Cyclic rainbow (log-smoothed)"},
	SqrtRainbow:        {name: "sqrt-rainbow", description: "Cyclic rainbow (sqrt-smoothed)"},
	HsvGradient:        {name: "hsv-gradient", description: "A gradient in the HSV colour space"},
	LchGradient:        {name: "lch-gradient", description: "A gradient in the LCH colour space which strives for perceptual uniformity"},
	Mandy:              {name: "mandy", description: "The colouring algorithm from mandy by rjk"},
	WhiteFade:          {name: "white-fade", description: "fanf's White Fade algorithm"},
	BlackFade:          {name: "black-fade", description: "fanf's Black Fade algorithm"},
	Monochrome:         {name: "monochrome", aliases: []string{"mono"}, description: "fanf's Monochrome Shade algorithm"},
	MonochromeInverted: {name: "monochrome-inverted", aliases: []string{"mono-inv"}, description: "fanf's Monochrome Shade algorithm, inverted"},
	OneLoneCoder:       {name: "one-lone-coder", aliases: []string{"onelonecoder", "olc"}, description: "OneLoneCoder's algorithm"},
	White:              {name: "white", description: "Test algorithm that always outputs white pixels", hidden: true},
}

func (s Selection) String() string {
	if s >= numSelections {
		return fmt.Sprintf("colourer(%d)", uint8(s))
	}
	return selectionTable[s].name
}

// Description returns a one-line human description.
func (s Selection) Description() string {
	if s >= numSelections {
		return ""
	}
	return selectionTable[s].description
}

// Selections lists the colourers offered to users.
func Selections() []Selection {
	out := make([]Selection, 0, numSelections)
	for s := Selection(0); s < numSelections; s++ {
		if !selectionTable[s].hidden {
			out = append(out, s)
		}
	}
	return out
}

// Parse looks up a colourer by name or alias, case-insensitively.
func Parse(name string) (Selection, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for s := Selection(0); s < numSelections; s++ {
		if selectionTable[s].name == n {
			return s, nil
		}
		for _, a := range selectionTable[s].aliases {
			if a == n {
				return s, nil
			}
		}
	}
	return LinearRainbow, fmt.Errorf("%w: %q", ErrUnknownColourer, name)
}

const (
	linearRainbowWrap = 32.0
	itersClampEpsilon = 0.00001
)

var (
	black = color.RGBA{A: 255}
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Colour maps an iteration count to an opaque colour.
func (s Selection) Colour(iters float32, maxIter uint32) color.RGBA {
	it := float64(iters)
	inf := math.IsInf(it, 1)
	switch s {
	case LinearRainbow:
		if inf {
			return black
		}
		tau := it / linearRainbowWrap
		tau -= math.Floor(tau)
		return hsv(0.5+tau, 1, 1)
	case LogRainbow:
		if inf {
			return black
		}
		return hsv(60.0*math.Log(it)/360.0, 1, 1)
	case SqrtRainbow:
		if inf {
			return black
		}
		return hsv(20.0*math.Sqrt(it)/360.0, 1, 1)
	case HsvGradient:
		if inf || it >= float64(maxIter)-1.0 {
			return black
		}
		degrees := math.Mod(math.Pow(it/float64(maxIter)*360.0, 1.5), 360.0)
		return hsv(degrees/360.0, 1, 1)
	case LchGradient:
		if inf {
			return black
		}
		t := it / float64(maxIter)
		v := 1.0 - math.Pow(math.Cos(math.Pi*t), 2)
		l := 75.0 - 75.0*v
		return lch(l, 28.0+l, math.Mod(math.Pow(t*360.0, 1.5), 360.0))
	case OneLoneCoder:
		if inf {
			return black
		}
		return color.RGBA{
			R: uint8(255 * (0.5*math.Sin(0.1*it) + 0.5)),
			G: uint8(255 * (0.5*math.Sin(0.1*it+2.094) + 0.5)),
			B: uint8(255 * (0.5*math.Sin(0.1*it+4.188) + 0.5)),
			A: 255,
		}
	case Mandy:
		if inf {
			return black
		}
		c := 2.0 * math.Pi * math.Sqrt(it)
		return color.RGBA{
			R: uint8((math.Cos(c/5.0) + 1.0) * 127.0),
			G: uint8((math.Cos(c/7.0) + 1.0) * 127.0),
			B: uint8((math.Cos(c/11.0) + 1.0) * 127.0),
			A: 255,
		}
	case WhiteFade:
		if it < itersClampEpsilon {
			return white
		}
		if inf {
			return black
		}
		l := math.Log(it)
		if l < 0 {
			return white
		}
		return color.RGBA{
			R: uint8(255.0 * 0.5 * (1.0 + math.Cos(l*2.0))),
			G: uint8(255.0 * 0.5 * (1.0 + math.Cos(l*1.5))),
			B: uint8(255.0 * 0.5 * (1.0 + math.Cos(l))),
			A: 255,
		}
	case BlackFade:
		if it < itersClampEpsilon || inf {
			return black
		}
		l := math.Log(it)
		if l < 0 {
			return black
		}
		return color.RGBA{
			R: uint8(255.0 * 0.5 * (1.0 - math.Cos(l))),
			G: uint8(255.0 * 0.5 * (1.0 - math.Cos(l*2.0))),
			B: uint8(255.0 * 0.5 * (1.0 - math.Cos(l*3.0))),
			A: 255,
		}
	case Monochrome:
		g := monochromeShade(it)
		return color.RGBA{R: g, G: g, B: g, A: 255}
	case MonochromeInverted:
		g := 255 - monochromeShade(it)
		return color.RGBA{R: g, G: g, B: g, A: 255}
	default:
		return white
	}
}

func monochromeShade(it float64) uint8 {
	switch {
	case it < itersClampEpsilon:
		return 0
	case it < math.E:
		return 255
	default:
		// ln(+Inf) is +Inf, giving 0.
		return uint8(255.0 / math.Log(it))
	}
}

// hsv converts hue (in turns), saturation and value to RGB.
func hsv(h, s, v float64) color.RGBA {
	h -= math.Floor(h)
	return rgba(colorful.Hsv(h*360, s, v))
}

// lch converts CIE LCh(ab) (hue in degrees, D65 white) to RGB.
// Lightness and chroma are on the usual 0-100 scale.
func lch(l, c, hDeg float64) color.RGBA {
	return rgba(colorful.Hcl(hDeg, c/100, l/100))
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
