package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"
	"strings"

	"github.com/roach88/malviz/internal/config"
	"github.com/roach88/malviz/internal/pipeline"
	"github.com/roach88/malviz/internal/source"
	"github.com/roach88/malviz/internal/store"
	"github.com/roach88/malviz/internal/tidy"
)

// DefaultRunID is used when a scenario does not fix one.
const DefaultRunID = "run-test"

// Run executes a scenario against a fresh in-memory store and evaluates
// its assertions. An error means the scenario could not run at all;
// assertion failures are reported in the Result.
func Run(scenario *Scenario) (*Result, error) {
	return RunContext(context.Background(), scenario)
}

// RunContext is Run with a caller-supplied context.
func RunContext(ctx context.Context, scenario *Scenario) (*Result, error) {
	cfg, err := scenarioConfig(scenario)
	if err != nil {
		return nil, err
	}
	malaria, err := loadSource(scenario.Datasets.Malaria)
	if err != nil {
		return nil, fmt.Errorf("load malaria: %w", err)
	}
	population, err := loadSource(scenario.Datasets.Population)
	if err != nil {
		return nil, fmt.Errorf("load population: %w", err)
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create store: %w", err)
	}
	defer st.Close()

	runID := scenario.RunID
	if runID == "" {
		runID = DefaultRunID
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	run, err := pipeline.RunTables(ctx, cfg, malaria, population, pipeline.Options{
		IDs:    pipeline.NewFixedGenerator(runID),
		Logger: logger,
		Store:  st,
	})
	if err != nil {
		return nil, fmt.Errorf("run pipeline: %w", err)
	}

	result := NewResult()
	result.RunID = run.RunID
	result.Join = run.JoinStats
	result.Reports[TableMalaria] = run.Malaria.Report
	result.Reports[TablePopulation] = run.Population.Report
	if summary, err := run.Summary(); err == nil {
		result.Summary = summary
	}

	env := &evalEnv{ctx: ctx, run: run, store: st, result: result}
	for i, a := range scenario.Assertions {
		if err := env.check(a); err != nil {
			result.AddError(fmt.Sprintf("assertions[%d] (%s): %v", i, a.Type, err))
		}
	}
	return result, nil
}

// scenarioConfig builds the dashboard definition: dataset paths become
// source labels and the scenario's overrides are merged on top.
func scenarioConfig(s *Scenario) (*config.Dashboard, error) {
	base := map[string]any{
		"datasets": map[string]any{
			"malaria":    map[string]any{"path": sourceLabel(TableMalaria, s.Datasets.Malaria)},
			"population": map[string]any{"path": sourceLabel(TablePopulation, s.Datasets.Population)},
		},
	}
	merged := mergeMaps(base, s.Config)
	cfg, err := config.FromMap(merged)
	if err != nil {
		return nil, fmt.Errorf("scenario config: %w", err)
	}
	return cfg, nil
}

func sourceLabel(name string, ds DatasetSource) string {
	if ds.Path != "" {
		return ds.Path
	}
	return "inline:" + name
}

func loadSource(ds DatasetSource) (tidy.WideTable, error) {
	if ds.Path != "" {
		return source.LoadFile(ds.Path, ds.Sheet)
	}
	return source.ReadCSV(strings.NewReader(ds.CSV))
}

// mergeMaps returns dst overlaid with src. Nested maps are merged;
// other values in src replace those in dst.
func mergeMaps(dst, src map[string]any) map[string]any {
	out := maps.Clone(dst)
	for k, v := range src {
		sub, ok := v.(map[string]any)
		if prev, isMap := out[k].(map[string]any); ok && isMap {
			out[k] = mergeMaps(prev, sub)
			continue
		}
		out[k] = v
	}
	return out
}
