/*
Package routine generates the deterministic daily routine.

Generate is a pure function from (date, wake estimate, bed target) to
an ordered sequence of routine occurrences. Each occurrence is placed
at a fixed offset from one of the two anchors: morning routines hang
off the wake estimate, evening routines count back from the bed
target. The same inputs always produce the same windows, so the
reconciler can safely re-run generation at any time.

Days shorter than the minimum spacing compress proportionally rather
than producing inverted or overlapping windows.
*/
package routine
