// Package logging assembles structured slog loggers and formatting helpers used
// across mixprep.
//
// It owns the console/JSON handlers, centralizes level and output plumbing, and
// exposes component loggers so per-track diagnostics share one shape. The
// console handler lifts the component and track fields into a readable prefix.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
