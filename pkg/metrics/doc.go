/*
Package metrics provides Prometheus metrics for the Cadence daemon.

All metrics are registered against the default registry at package
init and exposed via promhttp on the daemon's /metrics endpoint.
Counters track regeneration and calibration cycles, reconciliation
mutations, reminder emissions, and action transitions; histograms
record evaluator cycle durations; a gauge vector reports the current
day's item counts by source and status.

The Timer helper wraps start-time capture and histogram observation:

	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.RegenerationDuration)
*/
package metrics
