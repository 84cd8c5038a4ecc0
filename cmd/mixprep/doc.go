// Package main hosts the mixprep CLI entrypoint and command graph.
//
// The Cobra command tree exposes the dataset preparation jobs (archive
// download, full and whitelist-filtered remixing, activation filtering), a
// read-only track inspector, the run ledger, preflight checks and config
// scaffolding. Configuration resolution, logger construction and ledger
// access are centralized in commandContext so subcommands only wire flags to
// the internal packages.
package main
