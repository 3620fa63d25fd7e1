// Package chart builds declarative chart specifications from tidy tables.
//
// Builders are pure: each returns a new *Spec and never mutates its input
// tables. Randomness (the trend uncertainty band) comes from a caller-owned
// *rand.Rand so that output is reproducible under a fixed seed. Specs are
// plain values meant to be serialised (see the canon package) and handed
// to an external renderer; nothing here draws.
package chart
