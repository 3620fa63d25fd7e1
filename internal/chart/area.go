package chart

import (
	"fmt"

	"github.com/roach88/malviz/internal/tidy"
)

// AreaOptions configures StackedArea.
type AreaOptions struct {
	Title     string
	YTitle    string
	Countries []string
}

// StackedArea stacks the selected countries' values over time, with
// markers on each observation. Missing values are left as gaps.
func StackedArea(t *tidy.Table, opts AreaOptions) (*Spec, error) {
	if len(opts.Countries) == 0 {
		return nil, &OptionError{Option: "countries", Message: "at least one country required"}
	}

	spec := &Spec{
		Kind:   KindStackedArea,
		Title:  opts.Title,
		XAxis:  Axis{Title: "Year", Grid: true},
		YAxis:  Axis{Title: yTitle(opts.YTitle, t.Metric), Grid: true},
		Legend: true,
	}
	if spec.Title == "" {
		spec.Title = t.Metric + " trend"
	}

	for i, country := range opts.Countries {
		s := Series{
			Name: country,
			Style: Style{
				Type:       "area",
				Mode:       "lines+markers",
				Color:      seriesColor(i),
				StackGroup: "one",
			},
		}
		for _, o := range t.Rows {
			if o.Country != country {
				continue
			}
			if v, ok := o.Value.Get(); ok {
				s.X = append(s.X, float64(o.Year))
				s.Y = append(s.Y, v)
			}
		}
		if len(s.X) > 0 {
			spec.Series = append(spec.Series, s)
		}
	}
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("stacked area: %w", ErrNoData)
	}
	return spec, nil
}
