package metrics

import "github.com/roach88/malviz/internal/tidy"

// Ratioed pairs a row with a derived ratio.
type Ratioed[R any] struct {
	Row   R          `json:"row"`
	Value tidy.Value `json:"ratio"`
}

// RatioOf selects the ratio of a Ratioed row. Pass it as the Column of a
// follow-up query, e.g. Argmax(ratios, RatioOf[tidy.JoinedRecord], nil).
func RatioOf[R any](r Ratioed[R]) tidy.Value {
	return r.Value
}

// Ratio divides num by den row by row. A zero denominator, or a missing
// operand, yields a missing ratio rather than an error so that later
// queries over the result skip the row.
func Ratio[R any](rows []R, num, den Column[R], keep Filter[R]) []Ratioed[R] {
	out := make([]Ratioed[R], 0, len(rows))
	for _, r := range rows {
		if keep != nil && !keep(r) {
			continue
		}
		out = append(out, Ratioed[R]{Row: r, Value: divide(num(r), den(r))})
	}
	return out
}

func divide(n, d tidy.Value) tidy.Value {
	nf, nok := n.Get()
	df, dok := d.Get()
	if !nok || !dok || df == 0 {
		return tidy.Missing
	}
	return tidy.Some(nf / df)
}
