// Package pipeline runs the dashboard ETL end to end.
//
// A run loads both datasets, melts them to long form, cleans them into
// typed tables and inner-joins them on (country, year):
//
//	source.LoadFile -> tidy.Melt -> clean.Coerce -> join.Inner
//
// The Result then serves the value boxes (Summary) and chart specs
// (Chart, Charts, WriteCharts). Stages run in order on one goroutine;
// nothing depends on rendering.
//
// Each run is tagged with a run id from an IDGenerator. Production uses
// UUIDv7Generator; tests use FixedGenerator so that logs and stored
// datasets are reproducible.
package pipeline
