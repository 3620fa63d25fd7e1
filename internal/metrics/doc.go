// Package metrics computes summary statistics over typed table rows.
//
// Every query takes the rows, a Column selecting the value to aggregate and
// an optional Filter. Missing values are skipped, never counted as zero.
// Queries that need at least one value (Mean, Max, Min, Argmax,
// ArgminNonzero) return *EmptyInputError instead of a silent default, so
// callers can tell "no data" from "zero".
//
// Tie-break: Argmax and ArgminNonzero return the first qualifying row in
// slice order. Tables from the tidy package are sorted by (country, year),
// so ties resolve to the earliest country, then the earliest year.
package metrics
