// Package logging assembles structured slog loggers and formatting helpers used
// across vidgrab.
//
// It owns the configurable console/JSON handlers, routes output to stderr and
// an optional log file, and exposes attribute helpers so components tag their
// lines with a component name and run ID. A no-op logger is provided for tests
// and wiring code that cannot fail.
package logging
