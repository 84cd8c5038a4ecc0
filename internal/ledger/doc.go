// Package ledger records batch runs in a SQLite database.
//
// Every batch invocation opens a run, appends one result per visited track
// (ok, skipped or failed, with the failure kind and message), and closes the
// run with a final status. The ledger is append-only history; mixprep never
// reads it back to decide what to process.
package ledger
