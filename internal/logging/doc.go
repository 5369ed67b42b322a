// Package logging assembles structured slog loggers and formatting helpers used
// across Clipper.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so pipeline code automatically
// tags log lines with batch IDs, segment indices, stages, and backends. The
// package also provides a no-op logger for tests and wiring code that cannot fail.
package logging
