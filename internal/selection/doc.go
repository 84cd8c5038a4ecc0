// Package selection applies the instrument whitelist to a track's metadata.
//
// A stem survives when its instrument label, trimmed and lower-cased, is in the
// allow set and its audio file is present on disk. Filtering produces a trimmed
// copy of the record together with the ordered stem paths to mix; an empty
// result is a "nothing to mix" no-op rather than an error.
package selection
