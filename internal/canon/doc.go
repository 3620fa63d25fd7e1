// Package canon serialises values to canonical JSON and derives
// content-addressed fingerprints from it.
//
// Canonical form follows RFC 8785 where it matters for identity:
//   - object keys sorted by UTF-16 code units
//   - strings NFC-normalised, with only quote, backslash and control
//     characters escaped (no HTML escaping, U+2028/U+2029 literal)
//   - no insignificant whitespace (Marshal) or a fixed two-space indent
//     (Snapshot)
//
// Numbers keep the shortest round-trip text produced by encoding/json.
// Unlike RFC 8785 this package accepts null, since chart specs and tables
// use it for missing values.
package canon
