package chart

import (
	"fmt"
	"strconv"

	"github.com/biter777/countries"

	"github.com/roach88/malviz/internal/metrics"
	"github.com/roach88/malviz/internal/tidy"
)

// ChoroplethOptions configures ChoroplethByTime.
type ChoroplethOptions struct {
	Title      string
	ColorTitle string
}

// ChoroplethByTime emits one frame per year with data, ascending. Colours
// use a single scale across all frames so years are comparable.
func ChoroplethByTime(t *tidy.Table, opts ChoroplethOptions) (*Spec, error) {
	lo, err := metrics.Min(t.Rows, tidy.ObservationValue, nil)
	if err != nil {
		return nil, fmt.Errorf("choropleth: %w", ErrNoData)
	}
	hi, _ := metrics.Max(t.Rows, tidy.ObservationValue, nil)
	scale := bluesScale(lo, hi)

	iso := make(map[string]string)
	var unmapped []string
	for _, c := range t.Countries() {
		code := ISO3(c)
		if code == "" {
			unmapped = append(unmapped, c)
		}
		iso[c] = code
	}

	spec := &Spec{
		Kind:         KindChoropleth,
		Title:        opts.Title,
		ColorScale:   scale,
		LocationMode: "ISO-3",
		Unmapped:     unmapped,
	}
	if spec.Title == "" {
		spec.Title = t.Metric + " by country"
	}
	scale.Title = yTitle(opts.ColorTitle, t.Metric)

	for _, year := range t.Years() {
		frame := Frame{Name: strconv.Itoa(year), Year: year}
		for _, o := range t.Rows {
			v, ok := o.Value.Get()
			if o.Year != year || !ok {
				continue
			}
			frame.Points = append(frame.Points, Point{
				ID:       o.Country,
				Location: iso[o.Country],
				Value:    v,
				Color:    scale.colorAt(v),
			})
		}
		if len(frame.Points) > 0 {
			spec.Frames = append(spec.Frames, frame)
		}
	}
	return spec, nil
}

// ISO3 resolves a country name to its ISO 3166-1 alpha-3 code, or "" when
// the name is not recognised.
func ISO3(name string) string {
	code := countries.ByName(name)
	if code == countries.Unknown {
		return ""
	}
	return code.Alpha3()
}
