package chart

import (
	"fmt"
	"math/rand/v2"

	"github.com/roach88/malviz/internal/tidy"
)

// TrendOptions configures TrendWithBand.
type TrendOptions struct {
	Title     string
	YTitle    string
	Countries []string

	// ProjectionYear is the last historical year. Later years are drawn as
	// a projection.
	ProjectionYear int

	// BandMin and BandMax bound the uniform offset, in data units, added
	// above and subtracted below each historical point.
	BandMin float64
	BandMax float64
}

func (o TrendOptions) validate() error {
	if len(o.Countries) == 0 {
		return &OptionError{Option: "countries", Message: "at least one country required"}
	}
	if o.BandMin < 0 || o.BandMax < o.BandMin {
		return &OptionError{
			Option:  "band",
			Message: fmt.Sprintf("need 0 <= min <= max, got [%g, %g]", o.BandMin, o.BandMax),
		}
	}
	return nil
}

// TrendWithBand draws, per selected country, a solid historical line, a
// dotted projection and a shaded uncertainty band around the historical
// points. Countries absent from t are skipped.
func TrendWithBand(t *tidy.Table, opts TrendOptions, rng *rand.Rand) (*Spec, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if rng == nil {
		return nil, &OptionError{Option: "rng", Message: "random source required"}
	}

	spec := &Spec{
		Kind:   KindTrendBand,
		Title:  opts.Title,
		XAxis:  Axis{Title: "Year", TickStep: 10, Grid: true},
		YAxis:  Axis{Title: yTitle(opts.YTitle, t.Metric), Grid: true},
		Legend: true,
	}
	if spec.Title == "" {
		spec.Title = fmt.Sprintf("%s with projections after %d", t.Metric, opts.ProjectionYear)
	}

	for i, country := range opts.Countries {
		hist, proj := splitSeries(t, country, opts.ProjectionYear)
		if len(hist.x) == 0 && len(proj.x) == 0 {
			continue
		}
		color := seriesColor(i)

		if len(hist.x) > 0 {
			spec.Series = append(spec.Series, Series{
				Name:  country,
				Group: country,
				X:     hist.x,
				Y:     hist.y,
				Style: Style{Type: "line", Mode: "lines", Color: color, Width: 2},
			})
			spec.Bands = append(spec.Bands, band(country, hist, color, opts, rng))
		}
		if len(proj.x) > 0 {
			spec.Series = append(spec.Series, Series{
				Name:  country + " (projected)",
				Group: country,
				X:     proj.x,
				Y:     proj.y,
				Style: Style{Type: "line", Mode: "lines", Color: color, Dash: "dot", Width: 2},
			})
		}
	}
	if len(spec.Series) == 0 {
		return nil, fmt.Errorf("trend: %w", ErrNoData)
	}
	return spec, nil
}

type xy struct {
	x, y []float64
}

func splitSeries(t *tidy.Table, country string, projectionYear int) (hist, proj xy) {
	for _, o := range t.Rows {
		if o.Country != country {
			continue
		}
		v, ok := o.Value.Get()
		if !ok {
			continue
		}
		dst := &hist
		if o.Year > projectionYear {
			dst = &proj
		}
		dst.x = append(dst.x, float64(o.Year))
		dst.y = append(dst.y, v)
	}
	return hist, proj
}

// band draws every upper offset, then every lower offset, so a seed maps
// to the same band regardless of how the renderer consumes it.
func band(country string, hist xy, color string, opts TrendOptions, rng *rand.Rand) Band {
	n := len(hist.y)
	upper := make([]float64, n)
	lower := make([]float64, n)
	for i, v := range hist.y {
		upper[i] = v + uniform(rng, opts.BandMin, opts.BandMax)
	}
	for i, v := range hist.y {
		lower[i] = v - uniform(rng, opts.BandMin, opts.BandMax)
	}
	return Band{
		Name:      country + " band",
		Group:     country,
		X:         append([]float64(nil), hist.x...),
		Upper:     upper,
		Lower:     lower,
		FillColor: fill(color, 0.1),
	}
}

func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func yTitle(title, metric string) string {
	if title != "" {
		return title
	}
	return metric
}
