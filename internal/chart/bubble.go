package chart

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/roach88/malviz/internal/tidy"
)

// BubbleOptions configures AnimatedBubble.
type BubbleOptions struct {
	Title  string
	XTitle string
	YTitle string

	From, To int

	// SizeScale multiplies population in millions to get marker size.
	SizeScale float64
	// Padding widens each axis range by this fraction of its bounds.
	Padding float64
	// YMax fixes the upper y bound. Zero, or a value not above the padded
	// lower bound, leaves it padded like the others.
	YMax float64

	FrameDuration int
}

func (o BubbleOptions) validate() error {
	switch {
	case o.From > o.To:
		return &OptionError{Option: "years", Message: fmt.Sprintf("from %d after to %d", o.From, o.To)}
	case o.SizeScale <= 0:
		return &OptionError{Option: "size_scale", Message: "must be positive"}
	case o.Padding < 0:
		return &OptionError{Option: "padding", Message: "must not be negative"}
	case o.FrameDuration <= 0:
		return &OptionError{Option: "frame_duration", Message: "must be positive"}
	}
	return nil
}

// AnimatedBubble plots the joined right metric (x, size) against the left
// metric (y), one frame per year in [From, To]. Each country keeps its ID
// and colour across frames.
func AnimatedBubble(j *tidy.Joined, opts BubbleOptions) (*Spec, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	var rows []tidy.JoinedRecord
	for _, r := range j.Rows {
		if r.Year >= opts.From && r.Year <= opts.To {
			rows = append(rows, r)
		}
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("bubble %d-%d: %w", opts.From, opts.To, ErrNoData)
	}

	var names []string
	xlo, xhi := math.Inf(1), math.Inf(-1)
	ylo, yhi := math.Inf(1), math.Inf(-1)
	for _, r := range rows {
		names = append(names, r.Country)
		xlo, xhi = math.Min(xlo, r.Right), math.Max(xhi, r.Right)
		ylo, yhi = math.Min(ylo, r.Left), math.Max(yhi, r.Left)
	}
	slices.Sort(names)
	names = slices.Compact(names)
	colors := make(map[string]string, len(names))
	for i, n := range names {
		colors[n] = seriesColor(i)
	}

	yRange := &Range{Min: ylo * (1 - opts.Padding), Max: yhi * (1 + opts.Padding)}
	// A cap at or below the padded minimum would invert the axis.
	if opts.YMax > yRange.Min {
		yRange.Max = opts.YMax
	}

	spec := &Spec{
		Kind:  KindAnimatedBubble,
		Title: opts.Title,
		XAxis: Axis{
			Title:      yTitle(opts.XTitle, j.RightMetric),
			Range:      &Range{Min: xlo * (1 - opts.Padding), Max: xhi * (1 + opts.Padding)},
			TickFormat: ".1s",
			Grid:       true,
		},
		YAxis: Axis{
			Title: yTitle(opts.YTitle, j.LeftMetric),
			Range: yRange,
			Grid:  true,
		},
		Legend:    true,
		Animation: &Animation{FrameDuration: opts.FrameDuration, Group: "country"},
	}
	if spec.Title == "" {
		spec.Title = fmt.Sprintf("%s vs %s, %d-%d", j.LeftMetric, j.RightMetric, opts.From, opts.To)
	}

	// Rows are (country, year) ordered; frames need year-major order.
	byYear := make(map[int][]Point)
	var years []int
	for _, r := range rows {
		if _, ok := byYear[r.Year]; !ok {
			years = append(years, r.Year)
		}
		byYear[r.Year] = append(byYear[r.Year], Point{
			ID:    r.Country,
			X:     r.Right,
			Y:     r.Left,
			Size:  r.Right / 1e6 * opts.SizeScale,
			Value: r.Left,
			Color: colors[r.Country],
		})
	}
	slices.Sort(years)
	for _, y := range years {
		spec.Frames = append(spec.Frames, Frame{Name: strconv.Itoa(y), Year: y, Points: byYear[y]})
	}
	return spec, nil
}
