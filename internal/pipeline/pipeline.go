package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/malviz/internal/clean"
	"github.com/roach88/malviz/internal/config"
	"github.com/roach88/malviz/internal/join"
	"github.com/roach88/malviz/internal/source"
	"github.com/roach88/malviz/internal/store"
	"github.com/roach88/malviz/internal/tidy"
)

// Options configures a run. The zero value is usable.
type Options struct {
	IDs    IDGenerator  // default UUIDv7Generator
	Logger *slog.Logger // default slog.Default()

	// Store, when set, receives both cleaned tables.
	Store *store.Store
}

func (o Options) withDefaults() Options {
	if o.IDs == nil {
		o.IDs = UUIDv7Generator{}
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	return o
}

// TableResult is one cleaned dataset.
type TableResult struct {
	Table  *tidy.Table  `json:"-"`
	Report clean.Report `json:"report"`
	Source string       `json:"source"`

	// ID is the table's content fingerprint, equal to its store id.
	ID string `json:"id"`
	// Inserted is true when a store was given and this run first wrote
	// the table.
	Inserted bool `json:"inserted"`
}

// Result holds everything a run produced.
type Result struct {
	RunID      string            `json:"run_id"`
	Config     *config.Dashboard `json:"-"`
	Malaria    TableResult       `json:"malaria"`
	Population TableResult       `json:"population"`
	Joined     *tidy.Joined      `json:"-"`
	JoinStats  join.Stats        `json:"join"`
}

// Run loads both datasets named by cfg and processes them.
func Run(ctx context.Context, cfg *config.Dashboard, opts Options) (*Result, error) {
	malaria, err := source.LoadFile(cfg.Datasets.Malaria.Path, cfg.Datasets.Malaria.Sheet)
	if err != nil {
		return nil, fmt.Errorf("load malaria: %w", err)
	}
	population, err := source.LoadFile(cfg.Datasets.Population.Path, cfg.Datasets.Population.Sheet)
	if err != nil {
		return nil, fmt.Errorf("load population: %w", err)
	}
	return RunTables(ctx, cfg, malaria, population, opts)
}

// RunTables processes already-loaded wide tables. Dataset paths in cfg are
// used only as source labels.
func RunTables(ctx context.Context, cfg *config.Dashboard, malaria, population tidy.WideTable, opts Options) (*Result, error) {
	opts = opts.withDefaults()
	res := &Result{RunID: opts.IDs.Generate(), Config: cfg}
	log := opts.Logger.With("run_id", res.RunID)
	log.Info("run starting")

	var err error
	if res.Malaria, err = prepare(ctx, log, res.RunID, cfg.Datasets.Malaria, malaria, opts.Store); err != nil {
		return nil, err
	}
	if res.Population, err = prepare(ctx, log, res.RunID, cfg.Datasets.Population, population, opts.Store); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	res.Joined, res.JoinStats = join.Inner(res.Malaria.Table, res.Population.Table)
	log.Info("joined",
		"rows", res.JoinStats.Rows,
		"matched", res.JoinStats.Matched,
		"dropped_missing", res.JoinStats.DroppedMissing)

	log.Info("run complete")
	return res, nil
}

func prepare(ctx context.Context, log *slog.Logger, runID string, ds config.Dataset, w tidy.WideTable, st *store.Store) (TableResult, error) {
	if err := ctx.Err(); err != nil {
		return TableResult{}, err
	}

	raw, err := tidy.Melt(w, ds.IDColumn, ds.Metric)
	if err != nil {
		return TableResult{}, fmt.Errorf("melt %s: %w", ds.Metric, err)
	}
	log.Debug("melted", "metric", ds.Metric, "cells", len(raw.Rows))

	table, rep := clean.Coerce(raw, clean.Options{Magnitude: ds.Magnitude})
	log.Info("cleaned",
		"metric", ds.Metric,
		"rows", rep.Rows,
		"missing", rep.Missing,
		"unparsable", rep.Unparsable,
		"invalid_years", len(rep.InvalidYears),
		"duplicates", rep.Duplicates)

	tr := TableResult{Table: table, Report: rep, Source: ds.Path}
	if st == nil {
		tr.ID, err = store.DatasetID(table)
		if err != nil {
			return TableResult{}, fmt.Errorf("fingerprint %s: %w", ds.Metric, err)
		}
		return tr, nil
	}

	tr.ID, tr.Inserted, err = st.WriteTable(ctx, runID, ds.Path, table)
	if err != nil {
		return TableResult{}, fmt.Errorf("store %s: %w", ds.Metric, err)
	}
	log.Info("stored", "metric", ds.Metric, "dataset_id", tr.ID, "inserted", tr.Inserted)
	return tr, nil
}
