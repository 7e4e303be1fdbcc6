// Package logging assembles the logrus loggers used by the augment CLI.
//
// It maps configured level and format names onto logrus, routes records to
// stderr and an optional log file, and exposes a discarding logger for
// tests and wiring code that cannot fail.
package logging
