// Package filter defines a small predicate language over (country, year)
// keys.
//
// The same expression evaluates in memory (Match) for the metrics package
// and compiles to parameterised SQL (see internal/querysql) for reads from
// the dataset store, so both paths agree on which rows qualify.
//
// Expr is a sealed interface: only the types in this package implement it,
// which keeps type switches in backends exhaustive.
//
// A nil Expr matches every key.
package filter
