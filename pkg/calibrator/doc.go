/*
Package calibrator implements band-based reminder calibration.

The periodic dispatcher guarantees only a lower bound on tick spacing,
never exact timing, so exact-time alarms are off the table. Instead,
each pending item carries a calibration band of ±5 minutes around its
window start; any tick landing inside the band emits the reminder.
A coarse tick that misses the band entirely costs nothing: the next
regeneration and the urgency projection still surface the item.

Per-item NotificationState keeps emissions at most-once per armed
cycle no matter how many consecutive ticks observe the same band.
Snoozed items are skipped by band evaluation and re-armed here once
their shifted window start comes back into reach.
*/
package calibrator
