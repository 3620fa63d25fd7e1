package metrics

import (
	"cmp"
	"slices"
)

// Group is one per-group aggregate. Count is the number of present values
// that contributed.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// SumBy sums present values per group. Groups appear in first-seen order;
// groups whose values are all missing are omitted.
func SumBy[R any](rows []R, col Column[R], groupOf func(R) string, keep Filter[R]) []Group {
	var groups []Group
	index := make(map[string]int)
	values(rows, col, keep, func(i int, v float64) {
		key := groupOf(rows[i])
		gi, ok := index[key]
		if !ok {
			gi = len(groups)
			index[key] = gi
			groups = append(groups, Group{Key: key})
		}
		groups[gi].Value += v
		groups[gi].Count++
	})
	return groups
}

// MeanBy averages present values per group, in first-seen order.
func MeanBy[R any](rows []R, col Column[R], groupOf func(R) string, keep Filter[R]) []Group {
	groups := SumBy(rows, col, groupOf, keep)
	for i := range groups {
		groups[i].Value /= float64(groups[i].Count)
	}
	return groups
}

// TopN returns up to n rows with the largest present values, largest
// first. Equal values keep their slice order.
func TopN[R any](rows []R, col Column[R], n int, keep Filter[R]) []R {
	type ranked struct {
		row R
		v   float64
	}
	var all []ranked
	values(rows, col, keep, func(i int, v float64) {
		all = append(all, ranked{row: rows[i], v: v})
	})
	slices.SortStableFunc(all, func(a, b ranked) int {
		return cmp.Compare(b.v, a.v)
	})
	if n >= 0 && len(all) > n {
		all = all[:n]
	}

	out := make([]R, len(all))
	for i, r := range all {
		out[i] = r.row
	}
	return out
}
