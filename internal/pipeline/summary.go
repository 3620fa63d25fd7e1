package pipeline

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"

	"github.com/roach88/malviz/internal/filter"
	"github.com/roach88/malviz/internal/metrics"
	"github.com/roach88/malviz/internal/tidy"
)

// RatioRow is a joined row with its deaths-to-population ratio.
type RatioRow struct {
	Country    string  `json:"country"`
	Year       int     `json:"year"`
	Malaria    float64 `json:"malaria"`
	Population float64 `json:"population"`
	Ratio      float64 `json:"ratio"`
}

// Summary is the set of dashboard value boxes.
type Summary struct {
	Year int `json:"year"`

	TotalUnderFive float64          `json:"total_under_five"`
	TopCountry     tidy.Observation `json:"top_country"`
	MeanUnderFive  float64          `json:"mean_under_five"`

	HighestMalaria tidy.Observation `json:"highest_malaria"`
	LowestMalaria  tidy.Observation `json:"lowest_malaria"`
	HighestRatio   RatioRow         `json:"highest_ratio"`
}

// SummaryYear returns the year the population boxes describe: the
// configured summary year, else the ranking year, else the latest year
// with population data up to the projection year.
func (r *Result) SummaryYear() (int, error) {
	switch {
	case r.Config.SummaryYear != 0:
		return r.Config.SummaryYear, nil
	case r.Config.Ranking.Year != 0:
		return r.Config.Ranking.Year, nil
	}
	year, ok := r.Population.Table.LatestYearThrough(r.Config.ProjectionYear)
	if !ok {
		return 0, &metrics.EmptyInputError{Op: "latest_year"}
	}
	return year, nil
}

// Summary computes the value boxes. The lowest malaria box ignores zero
// values, which mark countries that reported none.
func (r *Result) Summary() (*Summary, error) {
	year, err := r.SummaryYear()
	if err != nil {
		return nil, fmt.Errorf("summary: %w", err)
	}
	s := &Summary{Year: year}

	pop := r.Population.Table.Rows
	inYear := metrics.Where[tidy.Observation](filter.Year(year))

	s.TotalUnderFive = metrics.Sum(pop, tidy.ObservationValue, inYear)
	if s.TopCountry, err = metrics.Argmax(pop, tidy.ObservationValue, inYear); err != nil {
		return nil, fmt.Errorf("summary: top country %d: %w", year, err)
	}
	if s.MeanUnderFive, err = metrics.Mean(pop, tidy.ObservationValue, inYear); err != nil {
		return nil, fmt.Errorf("summary: mean under-five %d: %w", year, err)
	}

	deaths := r.Malaria.Table.Rows
	if s.HighestMalaria, err = metrics.Argmax(deaths, tidy.ObservationValue, nil); err != nil {
		return nil, fmt.Errorf("summary: highest malaria: %w", err)
	}
	if s.LowestMalaria, err = metrics.ArgminNonzero(deaths, tidy.ObservationValue, nil); err != nil {
		return nil, fmt.Errorf("summary: lowest malaria: %w", err)
	}

	ratios := metrics.Ratio(r.Joined.Rows, tidy.JoinedLeft, tidy.JoinedRight, nil)
	best, err := metrics.Argmax(ratios, metrics.RatioOf[tidy.JoinedRecord], nil)
	if err != nil {
		return nil, fmt.Errorf("summary: highest ratio: %w", err)
	}
	s.HighestRatio = RatioRow{
		Country:    best.Row.Country,
		Year:       best.Row.Year,
		Malaria:    best.Row.Left,
		Population: best.Row.Right,
		Ratio:      best.Value.Float,
	}
	return s, nil
}

// Breakdown holds the per-group aggregates shown beneath the value boxes.
type Breakdown struct {
	MalariaByCountry []metrics.Group `json:"malaria_mean_by_country"`
	UnderFiveByYear  []metrics.Group `json:"under_five_total_by_year"`
}

// Breakdown averages malaria deaths per country over every year and totals
// the under-five population per year. Both lists are ordered by key.
func (r *Result) Breakdown() Breakdown {
	byCountry := func(o tidy.Observation) string { return o.Country }
	byYear := func(o tidy.Observation) string { return strconv.Itoa(o.Year) }

	b := Breakdown{
		MalariaByCountry: metrics.MeanBy(r.Malaria.Table.Rows, tidy.ObservationValue, byCountry, nil),
		UnderFiveByYear:  metrics.SumBy(r.Population.Table.Rows, tidy.ObservationValue, byYear, nil),
	}
	byKey := func(a, b metrics.Group) int { return cmp.Compare(a.Key, b.Key) }
	slices.SortFunc(b.MalariaByCountry, byKey)
	slices.SortFunc(b.UnderFiveByYear, byKey)
	return b
}
