/*
Package types defines the shared data model for the Cadence plan engine.

The model has three persisted record kinds: PlanDay (one per calendar
date, carrying the day's operating mode), PlanItem (one per scheduled
occurrence, deterministic or manual), and NotificationState (per-item
reminder dedupe). WidgetSnapshot and Reminder are derived, not
authoritative: they are recomputed from stored state on demand.

Ownership rules:
  - Deterministic items: existence and windows belong to the generator
    and reconciler; status belongs to the action handler once acted on.
  - Manual items: entirely user-owned, never touched by regeneration.
*/
package types
