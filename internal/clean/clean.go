// Package clean coerces melted raw tables into typed tidy tables.
//
// Coercion is tolerant: cells that fail to parse become missing values and
// are counted in the Report, never turned into zeros and never returned as
// errors.
package clean

import (
	"math"
	"strconv"
	"strings"

	"github.com/roach88/malviz/internal/tidy"
	"github.com/roach88/malviz/internal/units"
)

// Options controls how raw cells are parsed.
type Options struct {
	// Magnitude runs cells through units.ParseMagnitude so "12.3k" and
	// "4.5M" parse. Without it only plain numerals parse.
	Magnitude bool
}

// Report summarises what coercion discarded.
type Report struct {
	Rows         int      `json:"rows"`          // observations kept
	Missing      int      `json:"missing"`       // kept rows whose value is missing
	Unparsable   int      `json:"unparsable"`    // non-blank cells that failed to parse
	InvalidYears []string `json:"invalid_years"` // distinct headers rejected as years
	Duplicates   int      `json:"duplicates"`    // rows dropped because their key repeated
}

// Coerce converts raw into a tidy.Table.
//
// Year headers must be integral numbers; rows under any other header are
// dropped and the header recorded in Report.InvalidYears. Values that do
// not parse become tidy.Missing. When two headers coerce to the same year
// the first row wins.
func Coerce(raw *tidy.RawTable, opts Options) (*tidy.Table, Report) {
	var rep Report
	rejected := make(map[string]bool)
	seen := make(map[tidy.Key]bool, len(raw.Rows))
	rows := make([]tidy.Observation, 0, len(raw.Rows))

	for _, r := range raw.Rows {
		year, ok := CoerceYear(r.Year)
		if !ok {
			if !rejected[r.Year] {
				rejected[r.Year] = true
				rep.InvalidYears = append(rep.InvalidYears, r.Year)
			}
			continue
		}

		key := tidy.Key{Country: r.Country, Year: year}
		if seen[key] {
			rep.Duplicates++
			continue
		}
		seen[key] = true

		v := CoerceValue(r.Value, opts)
		if !v.Valid {
			rep.Missing++
			if strings.TrimSpace(r.Value) != "" {
				rep.Unparsable++
			}
		}
		rows = append(rows, tidy.Observation{Country: r.Country, Year: year, Value: v})
	}

	rep.Rows = len(rows)
	return tidy.NewTable(raw.Metric, rows), rep
}

// CoerceValue parses one cell. Blank, malformed and non-finite cells are
// missing.
func CoerceValue(cell string, opts Options) tidy.Value {
	s := strings.TrimSpace(cell)
	if s == "" {
		return tidy.Missing
	}

	if opts.Magnitude {
		f, err := units.ParseMagnitude(s)
		if err != nil {
			return tidy.Missing
		}
		return tidy.Some(f)
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return tidy.Missing
	}
	return tidy.Some(f)
}

// CoerceYear parses a column header as a year. "2000" and "2000.0" are
// accepted; "2000.5", "notes" and "" are not.
func CoerceYear(header string) (int, bool) {
	s := strings.TrimSpace(header)
	if s == "" {
		return 0, false
	}
	if y, err := strconv.Atoi(s); err == nil {
		return y, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
