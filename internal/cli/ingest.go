package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/roach88/malviz/internal/pipeline"
	"github.com/roach88/malviz/internal/store"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	Database string

	// IDs overrides the run id generator (for testing).
	// If nil, defaults to UUIDv7Generator.
	IDs pipeline.IDGenerator
}

// IngestResult is the JSON payload of the ingest command.
type IngestResult struct {
	Malaria    pipeline.TableResult `json:"malaria"`
	Population pipeline.TableResult `json:"population"`
	Datasets   []store.Dataset      `json:"datasets"`
	// Replaced maps a metric to the dataset id that was latest for it
	// before this run stored a different one.
	Replaced map[string]string `json:"replaced,omitempty"`
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest <config>",
		Short: "Clean both datasets and store them",
		Long: `Load and clean both datasets named by a dashboard config and write them
to a SQLite database, creating it if it doesn't exist. Datasets are keyed
by content, so ingesting unchanged data again stores nothing new.

Example:
  malviz ingest dashboard.cue --db ./malviz.db`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to SQLite database (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

func runIngest(opts *IngestOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	cfg, err := loadConfig(formatter, path)
	if err != nil {
		return err
	}

	slog.Info("opening database", "path", opts.Database)
	st, err := store.Open(opts.Database)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithCancel(commandContext(cmd))
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			slog.Info("received signal, cancelling ingest", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	previous := make(map[string]string)
	for _, metric := range []string{cfg.Datasets.Malaria.Metric, cfg.Datasets.Population.Metric} {
		d, err := st.LatestDataset(ctx, metric)
		switch {
		case err == nil:
			previous[metric] = d.ID
		case !errors.Is(err, store.ErrNotFound):
			return formatter.Fail(ExitCommandError, ErrCodeStore, err)
		}
	}

	res, err := runPipeline(ctx, formatter, cfg, st, opts.IDs)
	if err != nil {
		return err
	}

	replaced := make(map[string]string)
	for _, tr := range []pipeline.TableResult{res.Malaria, res.Population} {
		if prev, ok := previous[tr.Table.Metric]; ok && tr.Inserted && prev != tr.ID {
			replaced[tr.Table.Metric] = prev
		}
	}

	datasets, err := st.ListDatasets(ctx)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStore, err)
	}

	if formatter.IsJSON() {
		return formatter.SuccessRun(res.RunID, IngestResult{
			Malaria:    res.Malaria,
			Population: res.Population,
			Datasets:   datasets,
			Replaced:   replaced,
		})
	}

	w := formatter.Writer
	fmt.Fprintf(w, "Run %s\n", res.RunID)
	for _, tr := range []pipeline.TableResult{res.Malaria, res.Population} {
		status := "stored"
		if !tr.Inserted {
			status = "already stored"
		} else if prev, ok := replaced[tr.Table.Metric]; ok {
			status = "stored, replaces " + prev[:12]
		}
		fmt.Fprintf(w, "  %s %s: %s rows, %s missing (%s)\n",
			tr.Table.Metric, tr.ID[:12],
			humanize.Comma(int64(tr.Report.Rows)),
			humanize.Comma(int64(tr.Report.Missing)),
			status)
	}
	fmt.Fprintf(w, "%s dataset(s) in %s\n", humanize.Comma(int64(len(datasets))), opts.Database)
	return nil
}
