// Package batch drives dataset jobs across many track directories.
//
// A Runner enumerates work as Tasks, dispatches them to a bounded worker
// pool, isolates failures per track, and records every outcome in the run
// ledger. Pipeline binds the three dataset jobs (full remix, whitelist-filtered
// remix of a random sample, and activation filtering) to a Runner and the
// configured directory trees.
package batch
