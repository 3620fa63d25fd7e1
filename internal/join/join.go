// Package join combines two tidy tables on their (country, year) key.
package join

import "github.com/roach88/malviz/internal/tidy"

// Stats describes how much of each input survived the join.
type Stats struct {
	Left           int `json:"left"`            // rows in the left table
	Right          int `json:"right"`           // rows in the right table
	Matched        int `json:"matched"`         // keys present in both tables
	DroppedMissing int `json:"dropped_missing"` // matched rows dropped for a missing value
	Rows           int `json:"rows"`            // rows in the result
}

// Inner joins left and right on (country, year).
//
// Only keys present in both tables are emitted, and a matched row is dropped
// when either side's value is missing. Rows follow left's order, so the
// result is sorted by key whenever left is. The result never holds more
// rows than the smaller input.
func Inner(left, right *tidy.Table) (*tidy.Joined, Stats) {
	stats := Stats{Left: left.Len(), Right: right.Len()}

	index := make(map[tidy.Key]tidy.Value, right.Len())
	for _, o := range right.Rows {
		index[o.Key()] = o.Value
	}

	out := &tidy.Joined{
		LeftMetric:  left.Metric,
		RightMetric: right.Metric,
		Rows:        []tidy.JoinedRecord{},
	}
	for _, o := range left.Rows {
		rv, ok := index[o.Key()]
		if !ok {
			continue
		}
		stats.Matched++

		lf, lok := o.Value.Get()
		rf, rok := rv.Get()
		if !lok || !rok {
			stats.DroppedMissing++
			continue
		}
		out.Rows = append(out.Rows, tidy.JoinedRecord{
			Country: o.Country,
			Year:    o.Year,
			Left:    lf,
			Right:   rf,
		})
	}

	stats.Rows = len(out.Rows)
	return out, stats
}
