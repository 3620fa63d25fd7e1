package tidy

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// WideTable is a table as read from a source file: a header row followed by
// data rows. The identifier column can sit anywhere in the header.
type WideTable struct {
	Columns []string
	Rows    [][]string
}

// RawObservation is one melted cell before numeric coercion.
type RawObservation struct {
	Country string
	Year    string
	Value   string
}

// RawTable is the long form of a WideTable. Rows are sorted by country,
// then year. Header and row order of the source are kept for Widen.
type RawTable struct {
	Metric   string
	IDColumn string
	Rows     []RawObservation

	columns   []string // original header, including IDColumn
	countries []string // original row order
}

// Melt reshapes w into long form: one row per (identifier, column) pair,
// with the year taken from the column header and the value from the cell.
//
// Headers that are not years are kept verbatim; rejecting them is the
// cleaner's job. Short rows are padded with empty cells.
func Melt(w WideTable, idColumn, metric string) (*RawTable, error) {
	if len(w.Columns) == 0 {
		return nil, &SchemaError{Code: ErrCodeEmptyTable, Message: "table has no header row"}
	}

	idIdx := -1
	seen := make(map[string]bool, len(w.Columns))
	for i, col := range w.Columns {
		name := strings.TrimSpace(col)
		if seen[name] {
			return nil, &SchemaError{Code: ErrCodeDuplicateColumn, Column: name, Message: "duplicate column header"}
		}
		seen[name] = true
		if name == idColumn {
			idIdx = i
		}
	}
	if idIdx < 0 {
		return nil, &SchemaError{Code: ErrCodeMissingColumn, Column: idColumn, Message: "identifier column not found"}
	}

	raw := &RawTable{
		Metric:    metric,
		IDColumn:  idColumn,
		Rows:      make([]RawObservation, 0, len(w.Rows)*(len(w.Columns)-1)),
		columns:   slices.Clone(w.Columns),
		countries: make([]string, 0, len(w.Rows)),
	}

	ids := make(map[string]bool, len(w.Rows))
	for r, row := range w.Rows {
		if len(row) > len(w.Columns) {
			return nil, &SchemaError{
				Code:    ErrCodeRaggedRow,
				Message: fmt.Sprintf("row %d has %d cells, header has %d", r+1, len(row), len(w.Columns)),
			}
		}
		id := ""
		if idIdx < len(row) {
			id = strings.TrimSpace(row[idIdx])
		}
		if ids[id] {
			return nil, &SchemaError{Code: ErrCodeDuplicateKey, Column: idColumn, Message: fmt.Sprintf("identifier %q appears more than once", id)}
		}
		ids[id] = true
		raw.countries = append(raw.countries, id)

		for c, header := range w.Columns {
			if c == idIdx {
				continue
			}
			cell := ""
			if c < len(row) {
				cell = row[c]
			}
			raw.Rows = append(raw.Rows, RawObservation{
				Country: id,
				Year:    strings.TrimSpace(header),
				Value:   cell,
			})
		}
	}

	slices.SortStableFunc(raw.Rows, func(a, b RawObservation) int {
		if c := strings.Compare(a.Country, b.Country); c != 0 {
			return c
		}
		return compareYearHeaders(a.Year, b.Year)
	})

	return raw, nil
}

// Widen restores the wide table Melt was given: same header order, same
// row order, same cells.
func (t *RawTable) Widen() WideTable {
	cells := make(map[[2]string]string, len(t.Rows))
	for _, r := range t.Rows {
		cells[[2]string{r.Country, r.Year}] = r.Value
	}

	w := WideTable{
		Columns: slices.Clone(t.columns),
		Rows:    make([][]string, 0, len(t.countries)),
	}
	for _, country := range t.countries {
		row := make([]string, len(t.columns))
		for i, col := range t.columns {
			if strings.TrimSpace(col) == t.IDColumn {
				row[i] = country
				continue
			}
			row[i] = cells[[2]string{country, strings.TrimSpace(col)}]
		}
		w.Rows = append(w.Rows, row)
	}
	return w
}

// compareYearHeaders orders numeric headers numerically and places
// non-numeric headers after them, lexically.
func compareYearHeaders(a, b string) int {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		if c := cmp.Compare(fa, fb); c != 0 {
			return c
		}
		return strings.Compare(a, b)
	case errA == nil:
		return -1
	case errB == nil:
		return 1
	default:
		return strings.Compare(a, b)
	}
}
