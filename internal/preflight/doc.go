// Package preflight provides readiness checks for the filesystem paths
// mixprep depends on.
//
// The CLI "mixprep check" command runs RunAll and prints one status line per
// check. The audio tree is input only and is checked for read access; the
// modified, download, error log and log directories must be writable.
package preflight
