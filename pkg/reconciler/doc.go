/*
Package reconciler keeps stored deterministic plan items in line with
the freshly generated routine.

Each pass fetches the date's stored items, partitions them by source,
and diffs the deterministic rows against the generator's output by
occurrence key:

	missing from store            -> insert as pending
	window unchanged              -> preserve (acted status survives)
	window changed, still pending -> update window in place
	key absent from generation    -> delete stale row

Manual items are never inspected or mutated. Reconciliation is
idempotent: two back-to-back passes with identical anchors apply zero
mutations on the second run, which is what makes the coarse periodic
trigger safe under arbitrary delays and repeats.
*/
package reconciler
