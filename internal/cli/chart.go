package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/canon"
	"github.com/roach88/malviz/internal/chart"
	"github.com/roach88/malviz/internal/pipeline"
)

// ChartOptions holds flags for the chart command.
type ChartOptions struct {
	*RootOptions
	Output string
	Seed   int64
}

// ChartResult is the JSON payload of the chart command.
type ChartResult struct {
	Kind        chart.Kind  `json:"kind"`
	Fingerprint string      `json:"fingerprint"`
	File        string      `json:"file,omitempty"`
	Spec        *chart.Spec `json:"spec,omitempty"`
}

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ChartOptions{RootOptions: rootOpts}

	kinds := make([]string, 0, len(chart.Kinds()))
	for _, k := range chart.Kinds() {
		kinds = append(kinds, string(k))
	}

	cmd := &cobra.Command{
		Use:   "chart <kind> <config>",
		Short: "Emit one chart spec",
		Long: `Build one chart spec from a dashboard config and write it as canonical
JSON to stdout or to the file named by --output.

Kinds: ` + strings.Join(kinds, ", ") + `

Example:
  malviz chart ranked-bar dashboard.cue
  malviz chart trend-band dashboard.cue -o trend.json --seed 7`,
		Args:          cobra.ExactArgs(2),
		ValidArgs:     kinds,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "write the spec to this file")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (default from config)")

	return cmd
}

func runChart(opts *ChartOptions, kindName, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	kind, err := chart.ParseKind(kindName)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeUnknownChart, err)
	}
	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}
	res, err := runPipeline(commandContext(cmd), formatter, cfg, nil, nil)
	if err != nil {
		return err
	}

	seed := cfg.Seed
	if cmd.Flags().Changed("seed") {
		seed = opts.Seed
	}
	formatter.VerboseLog("Building %s with seed %d", kind, seed)

	spec, err := res.Chart(kind, pipeline.NewRand(seed))
	if err != nil {
		return dataError(formatter, err)
	}
	data, err := canon.Snapshot(spec)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
	fp, err := canon.Fingerprint(canon.DomainChart, spec)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, err)
	}

	if opts.Output != "" {
		if err := os.WriteFile(opts.Output, data, 0644); err != nil {
			return formatter.Fail(ExitCommandError, ErrCodeWriteFailed, err)
		}
		if formatter.IsJSON() {
			return formatter.SuccessRun(res.RunID, ChartResult{Kind: kind, Fingerprint: fp, File: opts.Output})
		}
		fmt.Fprintf(formatter.Writer, "✓ %s written to %s (%s)\n", kind, opts.Output, humanize.Bytes(uint64(len(data))))
		return nil
	}

	if formatter.IsJSON() {
		return formatter.SuccessRun(res.RunID, ChartResult{Kind: kind, Fingerprint: fp, Spec: spec})
	}
	_, err = formatter.Writer.Write(data)
	return err
}
