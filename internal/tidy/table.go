package tidy

import (
	"cmp"
	"slices"
	"strings"
)

// Key identifies a row within a table.
type Key struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
}

// Compare orders keys country-major, year-minor.
func (k Key) Compare(o Key) int {
	if c := strings.Compare(k.Country, o.Country); c != 0 {
		return c
	}
	return cmp.Compare(k.Year, o.Year)
}

// Observation is one cleaned (country, year, value) row of a single metric.
type Observation struct {
	Country string `json:"country"`
	Year    int    `json:"year"`
	Value   Value  `json:"value"`
}

// Key returns the observation's (country, year) key.
func (o Observation) Key() Key {
	return Key{Country: o.Country, Year: o.Year}
}

// ObservationValue selects the metric value of an observation.
func ObservationValue(o Observation) Value {
	return o.Value
}

// Table is a tidy table of one metric. Rows are sorted by Key and keys are
// unique.
type Table struct {
	Metric string        `json:"metric"`
	Rows   []Observation `json:"rows"`
}

// NewTable sorts rows by key and returns the table. Callers guarantee key
// uniqueness.
func NewTable(metric string, rows []Observation) *Table {
	slices.SortStableFunc(rows, func(a, b Observation) int {
		return a.Key().Compare(b.Key())
	})
	return &Table{Metric: metric, Rows: rows}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.Rows)
}

// Lookup returns the value stored under key.
func (t *Table) Lookup(key Key) (Value, bool) {
	i, found := slices.BinarySearchFunc(t.Rows, key, func(o Observation, k Key) int {
		return o.Key().Compare(k)
	})
	if !found {
		return Missing, false
	}
	return t.Rows[i].Value, true
}

// Years returns the distinct years in ascending order.
func (t *Table) Years() []int {
	seen := make(map[int]bool)
	var years []int
	for _, o := range t.Rows {
		if !seen[o.Year] {
			seen[o.Year] = true
			years = append(years, o.Year)
		}
	}
	slices.Sort(years)
	return years
}

// LatestYearThrough returns the most recent year holding at least one
// present value, considering only years <= limit. A limit of zero means
// no restriction. When every present value lies after limit it
// returns the earliest of them, so projected-only tables still resolve.
func (t *Table) LatestYearThrough(limit int) (int, bool) {
	latest, ok := 0, false
	earliest, seen := 0, false
	for _, o := range t.Rows {
		if !o.Value.Valid {
			continue
		}
		if !seen || o.Year < earliest {
			earliest, seen = o.Year, true
		}
		if limit != 0 && o.Year > limit {
			continue
		}
		if !ok || o.Year > latest {
			latest, ok = o.Year, true
		}
	}
	if !ok && seen {
		return earliest, true
	}
	return latest, ok
}

// Countries returns the distinct countries in ascending order.
func (t *Table) Countries() []string {
	var out []string
	for i, o := range t.Rows {
		if i == 0 || t.Rows[i-1].Country != o.Country {
			out = append(out, o.Country)
		}
	}
	return out
}

// Select returns the rows for which keep returns true, in table order.
func (t *Table) Select(keep func(Observation) bool) []Observation {
	var out []Observation
	for _, o := range t.Rows {
		if keep(o) {
			out = append(out, o)
		}
	}
	return out
}

// JoinedRecord is one row of an inner join of two tables. Both metrics are
// present by construction.
type JoinedRecord struct {
	Country string  `json:"country"`
	Year    int     `json:"year"`
	Left    float64 `json:"left"`
	Right   float64 `json:"right"`
}

// Key returns the record's (country, year) key.
func (r JoinedRecord) Key() Key {
	return Key{Country: r.Country, Year: r.Year}
}

// JoinedLeft selects the left-hand metric.
func JoinedLeft(r JoinedRecord) Value {
	return Some(r.Left)
}

// JoinedRight selects the right-hand metric.
func JoinedRight(r JoinedRecord) Value {
	return Some(r.Right)
}

// Joined is the result of joining two tables. LeftMetric and RightMetric
// name the Left and Right fields of each row.
type Joined struct {
	LeftMetric  string         `json:"left_metric"`
	RightMetric string         `json:"right_metric"`
	Rows        []JoinedRecord `json:"rows"`
}

// Len returns the number of rows.
func (j *Joined) Len() int {
	return len(j.Rows)
}
