/*
Package api exposes the plan engine over local HTTP.

Endpoints:

	GET  /health          liveness check
	GET  /metrics         Prometheus exposition
	GET  /widget          current widget snapshot
	GET  /plan?date=      a day's plan and items
	POST /actions/ack     acknowledge an item
	POST /actions/snooze  snooze an item
	POST /actions/skip    skip an item
	POST /tasks           inject manual tasks

Action submissions are accepted onto the handler's queue and applied
asynchronously; a lost precondition race surfaces as a no-op, not an
error, matching the engine's conditional-update semantics.
*/
package api
