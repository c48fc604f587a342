/*
Package log provides structured logging for Cadence using zerolog.

The log package wraps the zerolog library to provide JSON-structured
logging with component-specific loggers, configurable log levels, and
helper functions for common logging patterns. All logs include
timestamps and support filtering by severity level.

Usage:

	log.Init(log.Config{Level: log.InfoLevel})
	logger := log.WithComponent("reconciler")
	logger.Info().Str("date", date).Msg("plan regenerated")
*/
package log
