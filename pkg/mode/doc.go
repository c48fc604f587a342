/*
Package mode derives the day's operating mode from plan adherence.

A day runs in normal mode until enough core items go overdue or get
skipped, at which point it tips into recovery; the threshold is a
policy choice carried in configuration. The evaluator only ever
writes the PlanDay record, never item rows, and recomputes the same
answer for the same item set.
*/
package mode
