// Package store caches cleaned datasets in SQLite.
//
// A dataset is one cleaned tidy.Table. Its id is the canonical-JSON
// fingerprint of the table (metric plus rows), so writing the same table
// twice is a no-op and reports inserted=false.
//
//   - datasets: one row per distinct table, with the run that first wrote
//     it and a monotonically increasing seq
//   - observations: (dataset_id, country, year, value), value NULL when
//     missing
//
// Reads order rows by country COLLATE BINARY, year, which is the order
// tidy.Table keeps in memory. Ordering never depends on insertion order or
// wall time.
//
// # Database Configuration
//
//   - WAL mode: concurrent reads during writes
//   - synchronous=NORMAL
//   - busy_timeout=5000
//   - foreign_keys=ON
package store
