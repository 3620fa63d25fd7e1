package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/pipeline"
)

// BuildOptions holds flags for the build command.
type BuildOptions struct {
	*RootOptions
	Output string
	Seed   int64
}

// NewBuildCommand creates the build command.
func NewBuildCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &BuildOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "build <config>",
		Short: "Write every chart spec and a manifest",
		Long: `Run the pipeline and write one canonical JSON file per chart kind into
the output directory, plus manifest.json listing the run id, seed, dataset
ids and chart fingerprints. Identical inputs and seed give identical files.

Example:
  malviz build dashboard.cue -o ./out`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBuild(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output directory (required)")
	cmd.Flags().Int64Var(&opts.Seed, "seed", 0, "random seed (default from config)")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runBuild(opts *BuildOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

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

	manifest, err := res.WriteCharts(opts.Output, seed)
	if err != nil {
		return dataError(formatter, err)
	}

	if formatter.IsJSON() {
		return formatter.SuccessRun(res.RunID, manifest)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s (seed %d)\n", manifest.RunID, manifest.Seed)
	for _, e := range manifest.Charts {
		size := "?"
		if info, err := os.Stat(filepath.Join(opts.Output, e.File)); err == nil {
			size = humanize.Bytes(uint64(info.Size()))
		}
		fmt.Fprintf(w, "  ✓ %-20s %-8s %s\n", e.File, size, e.Fingerprint[:12])
	}
	fmt.Fprintf(w, "Wrote %d charts and %s to %s\n", len(manifest.Charts), pipeline.ManifestFile, opts.Output)
	return nil
}
