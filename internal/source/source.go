// Package source reads wide tables from CSV and XLSX files.
package source

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/malviz/internal/tidy"
)

// ErrUnsupportedFormat is returned for file extensions other than .csv and
// .xlsx.
var ErrUnsupportedFormat = errors.New("unsupported table format")

// ReadCSV reads a header row and data rows. Rows may be shorter than the
// header; longer rows are left for tidy.Melt to reject.
func ReadCSV(r io.Reader) (tidy.WideTable, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return tidy.WideTable{}, nil
	}
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("failed to read CSV header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\ufeff")

	rows, err := reader.ReadAll()
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("failed to read CSV rows: %w", err)
	}
	return tidy.WideTable{Columns: header, Rows: dropBlank(rows)}, nil
}

// ReadXLSX reads one sheet of a workbook. An empty sheet name selects the
// first sheet.
func ReadXLSX(r io.Reader, sheet string) (tidy.WideTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return tidy.WideTable{}, errors.New("workbook has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return tidy.WideTable{}, nil
	}
	return tidy.WideTable{Columns: rows[0], Rows: dropBlank(rows[1:])}, nil
}

// LoadFile reads path by extension. sheet applies to workbooks only.
func LoadFile(path, sheet string) (tidy.WideTable, error) {
	file, err := os.Open(path)
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	var w tidy.WideTable
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".csv":
		w, err = ReadCSV(file)
	case ".xlsx":
		w, err = ReadXLSX(file, sheet)
	default:
		return tidy.WideTable{}, fmt.Errorf("%s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return tidy.WideTable{}, fmt.Errorf("%s: %w", path, err)
	}
	return w, nil
}

// dropBlank removes rows whose cells are all empty, which spreadsheet
// exports leave behind.
func dropBlank(rows [][]string) [][]string {
	out := rows[:0]
	for _, row := range rows {
		for _, cell := range row {
			if strings.TrimSpace(cell) != "" {
				out = append(out, row)
				break
			}
		}
	}
	return out
}
