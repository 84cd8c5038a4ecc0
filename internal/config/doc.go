// Package config loads, normalizes, and validates mixprep configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours MIXPREP_* environment fallbacks,
// optionally sourced from a project .env file. The instrument whitelist is
// folded to its comparison form here so downstream packages only ever see
// normalized labels.
package config
