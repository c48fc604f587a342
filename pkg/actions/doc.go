/*
Package actions applies user reminder interactions to plan items.

The state machine per item is {pending, done, snoozed, skipped} with
done and skipped terminal. Every transition is a single conditional
update keyed by item ID: the store applies it only when the current
status matches the action's preconditions, so concurrent evaluators
and repeated deliveries degrade to silent no-ops.

Actions arrive either synchronously (CLI, HTTP) or through a bounded
queue drained by a worker goroutine, so event receivers block only
long enough to enqueue.
*/
package actions
