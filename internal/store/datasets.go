package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/malviz/internal/canon"
	"github.com/roach88/malviz/internal/filter"
	"github.com/roach88/malviz/internal/querysql"
	"github.com/roach88/malviz/internal/tidy"
)

// ErrNotFound is returned when a dataset lookup matches nothing.
var ErrNotFound = errors.New("dataset not found")

// Dataset describes one stored table.
type Dataset struct {
	ID     string `json:"id"`
	Metric string `json:"metric"`
	Source string `json:"source"`
	RunID  string `json:"run_id"`
	Rows   int    `json:"rows"`
	Seq    int64  `json:"seq"`
}

// DatasetID returns the content-addressed id of t.
func DatasetID(t *tidy.Table) (string, error) {
	return canon.Fingerprint(canon.DomainDataset, t)
}

// WriteTable stores t and returns its id and whether it was new. Writing
// a table whose content is already stored returns the existing id with
// inserted=false; the original run and source are kept.
func (s *Store) WriteTable(ctx context.Context, runID, source string, t *tidy.Table) (id string, inserted bool, err error) {
	id, err = DatasetID(t)
	if err != nil {
		return "", false, fmt.Errorf("write table: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", false, fmt.Errorf("write table: begin tx: %w", err)
	}
	defer tx.Rollback()

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM datasets`).Scan(&seq); err != nil {
		return "", false, fmt.Errorf("write table: next seq: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		INSERT INTO datasets (id, metric, source, run_id, row_count, seq)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, id, t.Metric, source, runID, t.Len(), seq)
	if err != nil {
		return "", false, fmt.Errorf("write table: insert dataset: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return "", false, fmt.Errorf("write table: rows affected: %w", err)
	}
	if affected == 0 {
		return id, false, tx.Commit()
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO observations (dataset_id, country, year, value)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return "", false, fmt.Errorf("write table: prepare: %w", err)
	}
	defer stmt.Close()

	for _, o := range t.Rows {
		var value any
		if v, ok := o.Value.Get(); ok {
			value = v
		}
		if _, err := stmt.ExecContext(ctx, id, o.Country, o.Year, value); err != nil {
			return "", false, fmt.Errorf("write table: insert %s/%d: %w", o.Country, o.Year, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", false, fmt.Errorf("write table: commit: %w", err)
	}
	return id, true, nil
}

// GetDataset returns the dataset with the given id.
func (s *Store) GetDataset(ctx context.Context, id string) (Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, metric, source, run_id, row_count, seq
		FROM datasets WHERE id = ?
	`, id)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return d, err
}

// LatestDataset returns the most recently written dataset for metric.
func (s *Store) LatestDataset(ctx context.Context, metric string) (Dataset, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, metric, source, run_id, row_count, seq
		FROM datasets
		WHERE metric = ?
		ORDER BY seq DESC, id COLLATE BINARY ASC
		LIMIT 1
	`, metric)
	d, err := scanDataset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Dataset{}, fmt.Errorf("%w: metric %q", ErrNotFound, metric)
	}
	return d, err
}

// ListDatasets returns every dataset in write order. Returns an empty
// slice, not nil, when the store is empty.
func (s *Store) ListDatasets(ctx context.Context) ([]Dataset, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, metric, source, run_id, row_count, seq
		FROM datasets
		ORDER BY seq ASC, id COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query datasets: %w", err)
	}
	defer rows.Close()

	datasets := []Dataset{}
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		datasets = append(datasets, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate datasets: %w", err)
	}
	return datasets, nil
}

// ReadTable loads the rows of a dataset that satisfy expr (nil for all).
func (s *Store) ReadTable(ctx context.Context, datasetID string, expr filter.Expr) (*tidy.Table, error) {
	d, err := s.GetDataset(ctx, datasetID)
	if err != nil {
		return nil, err
	}

	query, params, err := querysql.Compile(datasetID, expr)
	if err != nil {
		return nil, fmt.Errorf("read table: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, params...)
	if err != nil {
		return nil, fmt.Errorf("query observations: %w", err)
	}
	defer rows.Close()

	obs := []tidy.Observation{}
	for rows.Next() {
		var (
			o     tidy.Observation
			value sql.NullFloat64
		)
		if err := rows.Scan(&o.Country, &o.Year, &value); err != nil {
			return nil, fmt.Errorf("scan observation: %w", err)
		}
		if value.Valid {
			o.Value = tidy.Some(value.Float64)
		}
		obs = append(obs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate observations: %w", err)
	}
	return tidy.NewTable(d.Metric, obs), nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanDataset(row scanner) (Dataset, error) {
	var d Dataset
	err := row.Scan(&d.ID, &d.Metric, &d.Source, &d.RunID, &d.Rows, &d.Seq)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Dataset{}, err
		}
		return Dataset{}, fmt.Errorf("scan dataset: %w", err)
	}
	return d, nil
}
