// Package logging assembles structured slog loggers and formatting helpers used
// across subgen.
//
// It owns the console and JSON handlers, centralizes level and output plumbing,
// and exposes context-aware helpers so pipeline code can tag log lines with the
// run's correlation id, stage, and input path. Console output goes to stderr
// and can be mirrored as JSON lines into a log file. A no-op logger is provided
// for tests and wiring code that cannot fail.
package logging
