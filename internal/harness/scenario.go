package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/malviz/internal/chart"
)

// Scenario defines a pipeline scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario checks.
	Description string `yaml:"description"`

	// RunID is the fixed run id. Defaults to DefaultRunID.
	RunID string `yaml:"run_id,omitempty"`

	Datasets ScenarioDatasets `yaml:"datasets"`

	// Config is merged over the generated dashboard definition before
	// validation. Nested maps merge; everything else replaces.
	Config map[string]any `yaml:"config,omitempty"`

	Assertions []Assertion `yaml:"assertions"`
}

// ScenarioDatasets holds the two scenario inputs.
type ScenarioDatasets struct {
	Malaria    DatasetSource `yaml:"malaria"`
	Population DatasetSource `yaml:"population"`
}

// DatasetSource is either inline CSV or a file path. Exactly one is set.
type DatasetSource struct {
	CSV   string `yaml:"csv,omitempty"`
	Path  string `yaml:"path,omitempty"`
	Sheet string `yaml:"sheet,omitempty"`
}

// Assertion validates one aspect of a run.
type Assertion struct {
	Type string `yaml:"type"`

	// Table is malaria, population or joined (row_count).
	Table string `yaml:"table,omitempty"`

	// Year narrows row_count and pins argmax. Zero means unset.
	Year int `yaml:"year,omitempty"`

	// Countries narrows row_count.
	Countries []string `yaml:"countries,omitempty"`

	// Count is the expected rows (row_count) or frames (chart_frames).
	Count int `yaml:"count,omitempty"`

	// Metric names a summary box (metric, argmax).
	Metric string `yaml:"metric,omitempty"`

	// Value and Tolerance are used by metric. Tolerance defaults to 1e-9.
	Value     float64 `yaml:"value,omitempty"`
	Tolerance float64 `yaml:"tolerance,omitempty"`

	// Country is the expected winner (argmax).
	Country string `yaml:"country,omitempty"`

	// Chart is a chart kind (chart_frames).
	Chart string `yaml:"chart,omitempty"`
}

// Assertion type constants.
const (
	AssertRowCount    = "row_count"
	AssertMetric      = "metric"
	AssertArgmax      = "argmax"
	AssertChartFrames = "chart_frames"
)

// Table names accepted by row_count.
const (
	TableMalaria    = "malaria"
	TablePopulation = "population"
	TableJoined     = "joined"
)

// LoadScenario reads and parses a scenario YAML file. Relative dataset
// paths are resolved against the scenario's directory.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	scenario, err := ParseScenario(data)
	if err != nil {
		return nil, err
	}

	base := filepath.Dir(path)
	for _, ds := range []*DatasetSource{&scenario.Datasets.Malaria, &scenario.Datasets.Population} {
		if ds.Path != "" && !filepath.IsAbs(ds.Path) {
			ds.Path = filepath.Join(base, ds.Path)
		}
	}
	return scenario, nil
}

// ParseScenario parses scenario YAML. Unknown fields are rejected.
func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if err := validateSource("datasets.malaria", s.Datasets.Malaria); err != nil {
		return err
	}
	if err := validateSource("datasets.population", s.Datasets.Population); err != nil {
		return err
	}
	if len(s.Assertions) == 0 {
		return fmt.Errorf("assertions list is required and must be non-empty")
	}
	for i := range s.Assertions {
		if err := validateAssertion(i, &s.Assertions[i]); err != nil {
			return err
		}
	}
	return nil
}

func validateSource(field string, ds DatasetSource) error {
	switch {
	case ds.CSV == "" && ds.Path == "":
		return fmt.Errorf("%s: one of csv or path is required", field)
	case ds.CSV != "" && ds.Path != "":
		return fmt.Errorf("%s: csv and path are mutually exclusive", field)
	}
	return nil
}

func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertRowCount:
		switch a.Table {
		case TableMalaria, TablePopulation, TableJoined:
		case "":
			return fmt.Errorf("assertions[%d]: table is required for row_count", index)
		default:
			return fmt.Errorf("assertions[%d]: unknown table %q", index, a.Table)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for row_count", index)
		}
	case AssertMetric:
		if _, ok := metricValues[a.Metric]; !ok {
			return fmt.Errorf("assertions[%d]: unknown metric %q", index, a.Metric)
		}
		if a.Tolerance < 0 {
			return fmt.Errorf("assertions[%d]: tolerance must be non-negative", index)
		}
	case AssertArgmax:
		if _, ok := argmaxKeys[a.Metric]; !ok {
			return fmt.Errorf("assertions[%d]: unknown argmax metric %q", index, a.Metric)
		}
		if a.Country == "" {
			return fmt.Errorf("assertions[%d]: country is required for argmax", index)
		}
	case AssertChartFrames:
		if _, err := chart.ParseKind(a.Chart); err != nil {
			return fmt.Errorf("assertions[%d]: %w", index, err)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for chart_frames", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
