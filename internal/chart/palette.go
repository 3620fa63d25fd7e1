package chart

import (
	"fmt"
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// seriesColors is the categorical palette for per-country series.
var seriesColors = []string{"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd"}

// blues is the sequential scale used for magnitudes, light to dark.
var blues = []string{
	"#f7fbff", "#deebf7", "#c6dbef", "#9ecae1", "#6baed6",
	"#4292c6", "#2171b5", "#08519c", "#08306b",
}

func seriesColor(i int) string {
	return seriesColors[i%len(seriesColors)]
}

func bluesScale(lo, hi float64) *ColorScale {
	return &ColorScale{Name: "Blues", Colors: append([]string(nil), blues...), Min: lo, Max: hi}
}

// colorAt interpolates the scale in RGB at v within [s.Min, s.Max]. A
// degenerate range maps to the darkest colour.
func (s *ColorScale) colorAt(v float64) string {
	t := 1.0
	if s.Max > s.Min {
		t = (v - s.Min) / (s.Max - s.Min)
	}
	t = math.Min(1, math.Max(0, t))

	pos := t * float64(len(s.Colors)-1)
	i := int(math.Floor(pos))
	if i >= len(s.Colors)-1 {
		return s.Colors[len(s.Colors)-1]
	}
	a := mustHex(s.Colors[i])
	b := mustHex(s.Colors[i+1])
	return a.BlendRgb(b, pos-float64(i)).Clamped().Hex()
}

// fill returns hex with the given alpha as a CSS rgba() string.
func fill(hex string, alpha float64) string {
	r, g, b := mustHex(hex).RGB255()
	return fmt.Sprintf("rgba(%d,%d,%d,%g)", r, g, b, alpha)
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(fmt.Sprintf("chart: bad palette colour %q: %v", s, err))
	}
	return c
}
