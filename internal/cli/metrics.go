package cli

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/join"
	"github.com/roach88/malviz/internal/pipeline"
	"github.com/roach88/malviz/internal/tidy"
	"github.com/roach88/malviz/internal/units"
)

// MetricsResult is the JSON payload of the metrics command.
type MetricsResult struct {
	Summary    *pipeline.Summary    `json:"summary"`
	Malaria    pipeline.TableResult `json:"malaria"`
	Population pipeline.TableResult `json:"population"`
	Join       join.Stats           `json:"join"`
	Breakdown  pipeline.Breakdown   `json:"breakdown"`
}

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metrics <config>",
		Short: "Print dashboard value boxes",
		Long: `Load and clean both datasets, join them and print the value boxes:
under-five totals for the summary year, the highest and lowest non-zero
malaria rows and the highest deaths-to-population ratio.

Example:
  malviz metrics dashboard.cue
  malviz metrics dashboard.yaml --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMetrics(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runMetrics(opts *RootOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}
	res, err := runPipeline(commandContext(cmd), formatter, cfg, nil, nil)
	if err != nil {
		return err
	}
	summary, err := res.Summary()
	if err != nil {
		return dataError(formatter, err)
	}

	if formatter.IsJSON() {
		return formatter.SuccessRun(res.RunID, MetricsResult{
			Summary:    summary,
			Malaria:    res.Malaria,
			Population: res.Population,
			Join:       res.JoinStats,
			Breakdown:  res.Breakdown(),
		})
	}
	writeSummary(formatter.Writer, res, summary)
	return nil
}

func writeSummary(w io.Writer, res *pipeline.Result, s *pipeline.Summary) {
	fmt.Fprintf(w, "Summary year %d\n", s.Year)
	fmt.Fprintf(w, "  Total under-five population:   %s\n", units.FormatCount(s.TotalUnderFive))
	fmt.Fprintf(w, "  Top country:                   %s\n", describe(s.TopCountry))
	fmt.Fprintf(w, "  Average under-five population: %s\n", units.FormatCount(s.MeanUnderFive))
	fmt.Fprintf(w, "  Highest malaria deaths:        %s\n", describe(s.HighestMalaria))
	fmt.Fprintf(w, "  Lowest malaria deaths:         %s\n", describe(s.LowestMalaria))
	fmt.Fprintf(w, "  Highest deaths per under-five: %s %d (%.4f)\n",
		s.HighestRatio.Country, s.HighestRatio.Year, s.HighestRatio.Ratio)
	fmt.Fprintf(w, "Rows: %s malaria, %s population, %s joined (%s dropped as missing)\n",
		humanize.Comma(int64(res.Malaria.Report.Rows)),
		humanize.Comma(int64(res.Population.Report.Rows)),
		humanize.Comma(int64(res.JoinStats.Rows)),
		humanize.Comma(int64(res.JoinStats.DroppedMissing)))

	b := res.Breakdown()
	fmt.Fprintln(w, "Mean malaria deaths by country:")
	for _, g := range b.MalariaByCountry {
		fmt.Fprintf(w, "  %-20s %s\n", g.Key, units.FormatCount(g.Value))
	}
	fmt.Fprintln(w, "Under-five population by year:")
	for _, g := range b.UnderFiveByYear {
		fmt.Fprintf(w, "  %-20s %s\n", g.Key, units.FormatSI(g.Value))
	}
}

func describe(o tidy.Observation) string {
	return fmt.Sprintf("%s %d (%s)", o.Country, o.Year, units.FormatCount(o.Value.Float))
}
