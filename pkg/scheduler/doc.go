/*
Package scheduler runs the daemon's named periodic jobs.

Two evaluators drive the plan engine: a coarse regeneration pass
(hours apart) and a fine calibration pass (minutes apart). Each job
is single-instance-at-a-time: a tick that would overlap a still
running prior instance of the same job is dropped rather than queued.
Different jobs run concurrently; cross-job safety is the storage
layer's problem, not the scheduler's.

Intervals are minimum cadences. Jobs are written to be idempotent and
band-based, so late, missed, or clustered ticks degrade gracefully.
*/
package scheduler
