/*
Package storage provides durable plan state storage for Cadence.

The Store interface abstracts a keyed record store with three record
kinds: plan days, plan items, and notification dedupe state. The
production implementation is BoltStore, backed by BoltDB (bbolt) with
JSON-encoded rows, one bucket per record kind.

Every mutation runs in its own bolt transaction, so concurrent
evaluators observe a consistent row-level view and a crashed pass
cannot leave a torn record. Conditional updates (ApplyStatus,
SnoozeItem) perform the precondition check and the write inside one
transaction; a failed precondition reports false, not an error.
*/
package storage
