package chart

import (
	"fmt"
	"slices"

	"github.com/roach88/malviz/internal/metrics"
	"github.com/roach88/malviz/internal/tidy"
	"github.com/roach88/malviz/internal/units"
)

// RankOptions configures RankedBar.
type RankOptions struct {
	Title string
	// Year to rank. Zero selects the latest year with data, no later
	// than MaxYear when that is set.
	Year    int
	MaxYear int
	Top     int
}

// RankedBar draws the Top countries for one year as horizontal bars,
// smallest first so the largest sits at the top. Bars are labelled with
// FormatMagnitude and coloured on the Blues scale.
func RankedBar(t *tidy.Table, opts RankOptions) (*Spec, error) {
	if opts.Top <= 0 {
		return nil, &OptionError{Option: "top", Message: fmt.Sprintf("must be positive, got %d", opts.Top)}
	}
	year := opts.Year
	if year == 0 {
		latest, ok := t.LatestYearThrough(opts.MaxYear)
		if !ok {
			return nil, fmt.Errorf("ranked bar: %w", ErrNoData)
		}
		year = latest
	}

	inYear := t.Select(func(o tidy.Observation) bool { return o.Year == year })
	top := metrics.TopN(inYear, tidy.ObservationValue, opts.Top, nil)
	if len(top) == 0 {
		return nil, fmt.Errorf("ranked bar: year %d: %w", year, ErrNoData)
	}
	slices.Reverse(top)

	lo, _ := metrics.Min(top, tidy.ObservationValue, nil)
	hi, _ := metrics.Max(top, tidy.ObservationValue, nil)
	scale := bluesScale(lo, hi)

	s := Series{
		Name:  t.Metric,
		Style: Style{Type: "bar", Orientation: "h"},
	}
	for _, o := range top {
		s.X = append(s.X, o.Value.Float)
		s.Categories = append(s.Categories, o.Country)
		s.Text = append(s.Text, units.FormatMagnitude(o.Value.Float))
		s.Colors = append(s.Colors, scale.colorAt(o.Value.Float))
	}

	title := opts.Title
	if title == "" {
		title = fmt.Sprintf("Top %d by %s (%d)", len(top), t.Metric, year)
	}
	return &Spec{
		Kind:       KindRankedBar,
		Title:      title,
		XAxis:      Axis{Title: t.Metric},
		YAxis:      Axis{Title: "Country"},
		Series:     []Series{s},
		ColorScale: scale,
	}, nil
}
