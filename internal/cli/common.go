package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/chart"
	"github.com/roach88/malviz/internal/config"
	"github.com/roach88/malviz/internal/metrics"
	"github.com/roach88/malviz/internal/pipeline"
	"github.com/roach88/malviz/internal/source"
	"github.com/roach88/malviz/internal/store"
	"github.com/roach88/malviz/internal/tidy"
)

func newFormatter(opts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// loadConfig loads a dashboard, reporting failures as command errors.
func loadConfig(f *OutputFormatter, path string) (*config.Dashboard, error) {
	cfg, err := config.Load(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, f.Fail(ExitCommandError, ErrCodeNotFound, err)
		}
		return nil, f.Fail(ExitCommandError, ErrCodeConfig, err)
	}
	f.VerboseLog("Loaded config %s (%s)", path, cfg.Title)
	return cfg, nil
}

// runPipeline runs cfg, storing both tables when st is non-nil.
func runPipeline(ctx context.Context, f *OutputFormatter, cfg *config.Dashboard, st *store.Store, ids pipeline.IDGenerator) (*pipeline.Result, error) {
	res, err := pipeline.Run(ctx, cfg, pipeline.Options{IDs: ids, Store: st})
	if err != nil {
		return nil, f.Fail(ExitCommandError, pipelineErrorCode(err), err)
	}
	return res, nil
}

func pipelineErrorCode(err error) string {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return ErrCodeNotFound
	case tidy.IsSchemaError(err), errors.Is(err, source.ErrUnsupportedFormat):
		return ErrCodeLoadFailed
	case errors.Is(err, store.ErrNotFound):
		return ErrCodeStore
	default:
		return ErrCodeGeneric
	}
}

// dataError reports a metric or chart failure. Too little data is a
// failure (exit 1); anything else is a command error.
func dataError(f *OutputFormatter, err error) error {
	var optErr *chart.OptionError
	switch {
	case metrics.IsEmptyInput(err), errors.Is(err, chart.ErrNoData):
		return f.Fail(ExitFailure, ErrCodeNoData, err)
	case errors.As(err, &optErr):
		return f.Fail(ExitCommandError, ErrCodeConfig, err)
	default:
		return f.Fail(ExitCommandError, ErrCodeGeneric, err)
	}
}
