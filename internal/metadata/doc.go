// Package metadata loads and saves per-track metadata records.
//
// A record carries the stem directory, the mix filename and an ordered mapping
// of stem identifiers to descriptors. Instruments may be written as a plain
// string or as a {name, family} mapping; both resolve to an Instrument value.
// Records round-trip through yaml.Node so saved copies keep every unrelated
// field, and the original key order, of the source file.
package metadata
