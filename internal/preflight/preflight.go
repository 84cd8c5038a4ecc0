package preflight

import (
	"path/filepath"

	"mixprep/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every preflight check for the given config. The audio tree
// only needs to be readable; every tree mixprep writes into must be writable.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckTrackTree("Audio directory", cfg.Paths.AudioDir),
		CheckDirectoryAccess("Modified directory", cfg.Paths.ModifiedDir),
		CheckDirectoryAccess("Download directory", cfg.Paths.DownloadDir),
		CheckDirectoryAccess("Error log directory", filepath.Dir(cfg.Paths.ErrorLog)),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
