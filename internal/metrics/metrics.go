package metrics

import (
	"github.com/roach88/malviz/internal/filter"
	"github.com/roach88/malviz/internal/tidy"
)

// Column selects a possibly-missing value from a row.
type Column[R any] func(R) tidy.Value

// Filter reports whether a row qualifies. A nil Filter keeps every row.
type Filter[R any] func(R) bool

// Keyed rows expose their (country, year) key.
type Keyed interface {
	Key() tidy.Key
}

// Where adapts a filter expression to a row Filter.
func Where[R Keyed](e filter.Expr) Filter[R] {
	if e == nil {
		return nil
	}
	return func(r R) bool {
		return filter.Match(e, r.Key())
	}
}

// values yields the present values of col among the rows kept by keep,
// along with their row index.
func values[R any](rows []R, col Column[R], keep Filter[R], fn func(i int, v float64)) {
	for i, r := range rows {
		if keep != nil && !keep(r) {
			continue
		}
		if v, ok := col(r).Get(); ok {
			fn(i, v)
		}
	}
}

// Sum adds the present values. An empty selection sums to 0.
func Sum[R any](rows []R, col Column[R], keep Filter[R]) float64 {
	var total float64
	values(rows, col, keep, func(_ int, v float64) {
		total += v
	})
	return total
}

// Count returns the number of present values.
func Count[R any](rows []R, col Column[R], keep Filter[R]) int {
	n := 0
	values(rows, col, keep, func(int, float64) {
		n++
	})
	return n
}

// Mean averages the present values.
func Mean[R any](rows []R, col Column[R], keep Filter[R]) (float64, error) {
	var total float64
	n := 0
	values(rows, col, keep, func(_ int, v float64) {
		total += v
		n++
	})
	if n == 0 {
		return 0, &EmptyInputError{Op: "mean"}
	}
	return total / float64(n), nil
}

// Max returns the largest present value.
func Max[R any](rows []R, col Column[R], keep Filter[R]) (float64, error) {
	r, err := Argmax(rows, col, keep)
	if err != nil {
		return 0, &EmptyInputError{Op: "max"}
	}
	return col(r).Float, nil
}

// Min returns the smallest present value, zeros included.
func Min[R any](rows []R, col Column[R], keep Filter[R]) (float64, error) {
	best, found := 0.0, false
	values(rows, col, keep, func(_ int, v float64) {
		if !found || v < best {
			best, found = v, true
		}
	})
	if !found {
		return 0, &EmptyInputError{Op: "min"}
	}
	return best, nil
}

// Argmax returns the row holding the largest present value. Ties go to
// the first row.
func Argmax[R any](rows []R, col Column[R], keep Filter[R]) (R, error) {
	best, idx := 0.0, -1
	values(rows, col, keep, func(i int, v float64) {
		if idx < 0 || v > best {
			best, idx = v, i
		}
	})
	if idx < 0 {
		var zero R
		return zero, &EmptyInputError{Op: "argmax"}
	}
	return rows[idx], nil
}

// ArgminNonzero returns the row holding the smallest present value that
// is not exactly zero. Zero means "not reported" in these datasets. Ties go
// to the first row.
func ArgminNonzero[R any](rows []R, col Column[R], keep Filter[R]) (R, error) {
	best, idx := 0.0, -1
	values(rows, col, keep, func(i int, v float64) {
		if v == 0 {
			return
		}
		if idx < 0 || v < best {
			best, idx = v, i
		}
	})
	if idx < 0 {
		var zero R
		return zero, &EmptyInputError{Op: "argmin_nonzero"}
	}
	return rows[idx], nil
}
