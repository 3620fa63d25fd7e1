package harness

import (
	"context"
	"fmt"
	"math"

	"github.com/roach88/malviz/internal/chart"
	"github.com/roach88/malviz/internal/filter"
	"github.com/roach88/malviz/internal/pipeline"
	"github.com/roach88/malviz/internal/store"
)

// AssertionError describes a failed assertion.
type AssertionError struct {
	Type     string
	Subject  string
	Expected any
	Actual   any
}

func (e *AssertionError) Error() string {
	return fmt.Sprintf("%s %s: expected %v, got %v", e.Type, e.Subject, e.Expected, e.Actual)
}

// metricValues selects the numeric summary values a metric assertion can
// name.
var metricValues = map[string]func(*pipeline.Summary) float64{
	"summary_year":     func(s *pipeline.Summary) float64 { return float64(s.Year) },
	"total_under_five": func(s *pipeline.Summary) float64 { return s.TotalUnderFive },
	"mean_under_five":  func(s *pipeline.Summary) float64 { return s.MeanUnderFive },
	"top_country":      func(s *pipeline.Summary) float64 { return s.TopCountry.Value.Float },
	"highest_malaria":  func(s *pipeline.Summary) float64 { return s.HighestMalaria.Value.Float },
	"lowest_malaria":   func(s *pipeline.Summary) float64 { return s.LowestMalaria.Value.Float },
	"highest_ratio":    func(s *pipeline.Summary) float64 { return s.HighestRatio.Ratio },
}

type winner struct {
	Country string
	Year    int
}

// argmaxKeys selects the row a summary box picked.
var argmaxKeys = map[string]func(*pipeline.Summary) winner{
	"top_country":     func(s *pipeline.Summary) winner { return winner{s.TopCountry.Country, s.TopCountry.Year} },
	"highest_malaria": func(s *pipeline.Summary) winner { return winner{s.HighestMalaria.Country, s.HighestMalaria.Year} },
	"lowest_malaria":  func(s *pipeline.Summary) winner { return winner{s.LowestMalaria.Country, s.LowestMalaria.Year} },
	"highest_ratio":   func(s *pipeline.Summary) winner { return winner{s.HighestRatio.Country, s.HighestRatio.Year} },
}

const defaultTolerance = 1e-9

type evalEnv struct {
	ctx    context.Context
	run    *pipeline.Result
	store  *store.Store
	result *Result
}

func (e *evalEnv) check(a Assertion) error {
	switch a.Type {
	case AssertRowCount:
		return e.checkRowCount(a)
	case AssertMetric:
		return e.checkMetric(a)
	case AssertArgmax:
		return e.checkArgmax(a)
	case AssertChartFrames:
		return e.checkChartFrames(a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
}

// rowFilter builds the row_count narrowing expression, nil when unset.
func rowFilter(a Assertion) filter.Expr {
	var parts []filter.Expr
	if a.Year != 0 {
		parts = append(parts, filter.Year(a.Year))
	}
	if len(a.Countries) > 0 {
		parts = append(parts, filter.Countries(a.Countries...))
	}
	if len(parts) == 0 {
		return nil
	}
	return filter.All(parts...)
}

// checkRowCount counts stored rows for the two inputs, so it also covers
// the store round trip. Joined rows are counted in memory.
func (e *evalEnv) checkRowCount(a Assertion) error {
	expr := rowFilter(a)

	var actual int
	switch a.Table {
	case TableMalaria, TablePopulation:
		id := e.run.Malaria.ID
		if a.Table == TablePopulation {
			id = e.run.Population.ID
		}
		t, err := e.store.ReadTable(e.ctx, id, expr)
		if err != nil {
			return err
		}
		actual = t.Len()
	case TableJoined:
		for _, r := range e.run.Joined.Rows {
			if filter.Match(expr, r.Key()) {
				actual++
			}
		}
	default:
		return fmt.Errorf("unknown table %q", a.Table)
	}

	if actual != a.Count {
		return &AssertionError{Type: a.Type, Subject: a.Table, Expected: a.Count, Actual: actual}
	}
	return nil
}

func (e *evalEnv) checkMetric(a Assertion) error {
	s := e.result.Summary
	if s == nil {
		return fmt.Errorf("no summary: input has no usable rows")
	}
	get, ok := metricValues[a.Metric]
	if !ok {
		return fmt.Errorf("unknown metric %q", a.Metric)
	}
	tol := a.Tolerance
	if tol == 0 {
		tol = defaultTolerance
	}
	actual := get(s)
	if math.Abs(actual-a.Value) > tol {
		return &AssertionError{Type: a.Type, Subject: a.Metric, Expected: a.Value, Actual: actual}
	}
	return nil
}

func (e *evalEnv) checkArgmax(a Assertion) error {
	s := e.result.Summary
	if s == nil {
		return fmt.Errorf("no summary: input has no usable rows")
	}
	get, ok := argmaxKeys[a.Metric]
	if !ok {
		return fmt.Errorf("unknown argmax metric %q", a.Metric)
	}
	w := get(s)
	if w.Country != a.Country || (a.Year != 0 && w.Year != a.Year) {
		expected := winner{a.Country, a.Year}
		if a.Year == 0 {
			expected.Year = w.Year
		}
		return &AssertionError{
			Type:     a.Type,
			Subject:  a.Metric,
			Expected: fmt.Sprintf("%s/%d", expected.Country, expected.Year),
			Actual:   fmt.Sprintf("%s/%d", w.Country, w.Year),
		}
	}
	return nil
}

func (e *evalEnv) checkChartFrames(a Assertion) error {
	kind, err := chart.ParseKind(a.Chart)
	if err != nil {
		return err
	}
	spec, err := e.run.Chart(kind, pipeline.NewRand(e.run.Config.Seed))
	if err != nil {
		return err
	}
	if len(spec.Frames) != a.Count {
		return &AssertionError{Type: a.Type, Subject: a.Chart, Expected: a.Count, Actual: len(spec.Frames)}
	}
	return nil
}
