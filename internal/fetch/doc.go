// Package fetch downloads dataset archives one URL at a time.
//
// Downloads are skip-if-present, stream through a temporary file renamed into
// place, and never fail the caller: a failed URL is logged and appended to a
// shared error log guarded by a file lock so concurrent downloader processes
// can record failures safely.
package fetch
