package chart

import (
	"fmt"
	"strings"
)

// Kind names a chart builder.
type Kind string

const (
	KindTrendBand      Kind = "trend-band"
	KindRankedBar      Kind = "ranked-bar"
	KindChoropleth     Kind = "choropleth"
	KindAnimatedBubble Kind = "animated-bubble"
	KindStackedArea    Kind = "stacked-area"
)

// Kinds lists every chart kind in build order.
func Kinds() []Kind {
	return []Kind{KindTrendBand, KindRankedBar, KindChoropleth, KindAnimatedBubble, KindStackedArea}
}

// ParseKind validates a chart kind name.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds() {
		if string(k) == s {
			return k, nil
		}
	}
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return "", fmt.Errorf("unknown chart kind %q (want one of %s)", s, strings.Join(names, ", "))
}

// Spec is a renderer-independent chart description.
type Spec struct {
	Kind         Kind        `json:"kind"`
	Title        string      `json:"title"`
	XAxis        Axis        `json:"x_axis"`
	YAxis        Axis        `json:"y_axis"`
	Legend       bool        `json:"legend"`
	Series       []Series    `json:"series,omitempty"`
	Bands        []Band      `json:"bands,omitempty"`
	Frames       []Frame     `json:"frames,omitempty"`
	Animation    *Animation  `json:"animation,omitempty"`
	ColorScale   *ColorScale `json:"color_scale,omitempty"`
	LocationMode string      `json:"location_mode,omitempty"`

	// Unmapped lists countries with no ISO-3 code. Renderers cannot place
	// them on a map.
	Unmapped []string `json:"unmapped,omitempty"`
}

// Axis describes one axis.
type Axis struct {
	Title      string  `json:"title,omitempty"`
	Range      *Range  `json:"range,omitempty"`
	TickFormat string  `json:"tick_format,omitempty"`
	TickStep   float64 `json:"tick_step,omitempty"`
	Grid       bool    `json:"grid,omitempty"`
}

// Range is a closed axis interval.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Series is one drawn trace. Bar series place labels in Categories; line
// and area series use numeric X.
type Series struct {
	Name       string    `json:"name"`
	Group      string    `json:"group,omitempty"`
	X          []float64 `json:"x,omitempty"`
	Y          []float64 `json:"y,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	Text       []string  `json:"text,omitempty"`
	Colors     []string  `json:"colors,omitempty"`
	Style      Style     `json:"style"`
}

// Style holds presentation hints for a series.
type Style struct {
	Type        string  `json:"type"`
	Mode        string  `json:"mode,omitempty"`
	Color       string  `json:"color,omitempty"`
	Dash        string  `json:"dash,omitempty"`
	Width       float64 `json:"width,omitempty"`
	Orientation string  `json:"orientation,omitempty"`
	StackGroup  string  `json:"stack_group,omitempty"`
}

// Band is a filled region between Lower and Upper over X.
type Band struct {
	Name      string    `json:"name"`
	Group     string    `json:"group,omitempty"`
	X         []float64 `json:"x"`
	Upper     []float64 `json:"upper"`
	Lower     []float64 `json:"lower"`
	FillColor string    `json:"fill_color"`
}

// Frame is one animation step.
type Frame struct {
	Name   string  `json:"name"`
	Year   int     `json:"year"`
	Points []Point `json:"points"`
}

// Point is one mark inside a frame. ID is stable across frames. Zero
// coordinates are omitted from JSON and read back as zero.
type Point struct {
	ID       string  `json:"id"`
	Location string  `json:"location,omitempty"`
	X        float64 `json:"x,omitempty"`
	Y        float64 `json:"y,omitempty"`
	Size     float64 `json:"size,omitempty"`
	Value    float64 `json:"value"`
	Color    string  `json:"color"`
}

// Animation controls frame playback.
type Animation struct {
	FrameDuration int    `json:"frame_duration_ms"`
	Group         string `json:"group"`
}

// ColorScale is a sequential scale mapped onto [Min, Max].
type ColorScale struct {
	Name   string   `json:"name"`
	Title  string   `json:"title,omitempty"`
	Colors []string `json:"colors"`
	Min    float64  `json:"min"`
	Max    float64  `json:"max"`
}
