// Package tidy holds the typed tables that flow through the pipeline.
//
// A dataset arrives as a WideTable: one identifier column (usually
// "country") followed by one column per year. Melt reshapes it into a
// RawTable in long form, one row per (identifier, column header), still
// holding raw strings. The clean package coerces a RawTable into a Table of
// Observations with integer years and explicit missing values. The join
// package combines two Tables into a Joined table.
//
// Ordering: every table produced here is sorted identifier-major,
// year-minor, both ascending. Downstream joins and tie-breaks rely on it.
//
// Missing values are represented by Value{Valid: false}. A missing value is
// never zero.
package tidy
