package types

import (
	"time"
)

// DateFormat is the layout for plan dates (ISO-8601 local date).
const DateFormat = "2006-01-02"

// PlanDay represents one calendar day of the plan.
// There is at most one PlanDay per date; it is created lazily on the
// first generation run for that date.
type PlanDay struct {
	Date      string // YYYY-MM-DD, local
	Mode      DayMode
	CreatedAt time.Time
}

// DayMode is the day-level operating state derived from plan adherence.
type DayMode string

const (
	ModeNormal   DayMode = "normal"
	ModeRecovery DayMode = "recovery"
)

// RoutineType identifies a fixed routine occurrence within a day.
type RoutineType string

const (
	RoutineWake     RoutineType = "wake"
	RoutineMedsAM   RoutineType = "meds_am"
	RoutineMeal     RoutineType = "meal"
	RoutineExercise RoutineType = "exercise"
	RoutineWindDown RoutineType = "wind_down"
	RoutineMedsPM   RoutineType = "meds_pm"
	RoutineSleep    RoutineType = "sleep"
	RoutineOther    RoutineType = "other"
)

// ItemSource says who owns an item's existence.
type ItemSource string

const (
	// SourceDeterministic items are owned by the generator/reconciler.
	// Their windows and existence are authoritative from generation,
	// but their status belongs to the action handler once acted on.
	SourceDeterministic ItemSource = "deterministic"

	// SourceManual items are owned entirely by the user (or the
	// assistive injection path) and are never touched by regeneration.
	SourceManual ItemSource = "manual"
)

// TimeWindow classifies where in the day an item's window starts.
type TimeWindow string

const (
	WindowMorning   TimeWindow = "morning"
	WindowAfternoon TimeWindow = "afternoon"
	WindowEvening   TimeWindow = "evening"
	WindowNight     TimeWindow = "night"
	WindowAnytime   TimeWindow = "anytime"
)

// ItemStatus represents the state of a plan item.
// Done and Skipped are terminal; Snoozed is transient.
type ItemStatus string

const (
	StatusPending ItemStatus = "pending"
	StatusDone    ItemStatus = "done"
	StatusSnoozed ItemStatus = "snoozed"
	StatusSkipped ItemStatus = "skipped"
)

// PlanItem is one scheduled occurrence, generated or manual.
type PlanItem struct {
	ID          string
	Date        string // YYYY-MM-DD, matches PlanDay.Date
	Title       string
	Routine     RoutineType
	Slot        string // distinguishes repeated routines (e.g. meal: breakfast/lunch/dinner)
	Source      ItemSource
	Window      TimeWindow
	Status      ItemStatus
	IsCore      bool // core items cannot be deleted by the user
	WindowStart time.Time
	WindowEnd   time.Time
	SnoozeCount int
	CreatedAt   time.Time
}

// Key returns the identity of a deterministic occurrence within its day.
// Reconciliation matches stored rows against generated occurrences by
// this key, not by item ID.
func (p *PlanItem) Key() string {
	if p.Slot == "" {
		return string(p.Routine)
	}
	return string(p.Routine) + "/" + p.Slot
}

// Terminal reports whether the item's status accepts no further transitions.
func (p *PlanItem) Terminal() bool {
	return p.Status == StatusDone || p.Status == StatusSkipped
}

// NotificationState records reminder dedupe state for one item.
// An item yields at most one reminder emission per armed cycle
// regardless of how many calibration passes observe it in its band.
type NotificationState struct {
	ItemID         string
	Date           string
	LastNotifiedAt *time.Time
}

// UrgencyTier buckets how soon the next pending item is due.
type UrgencyTier string

const (
	UrgencyNormal   UrgencyTier = "normal"
	UrgencyModerate UrgencyTier = "moderate"
	UrgencyUrgent   UrgencyTier = "urgent"
)

// WidgetSnapshot is the display-friendly projection pulled by passive
// surfaces. It is derived state: safe to recompute at any time.
type WidgetSnapshot struct {
	HasTask    bool
	ItemID     string
	Title      string
	Routine    RoutineType
	TimeUntil  string
	Urgency    UrgencyTier
	Mode       DayMode
	ComputedAt time.Time
}

// Reminder is what the calibrator emits for an item entering its band.
// The action identifiers are what an external notification surface
// wires back to the action handler.
type Reminder struct {
	ItemID       string
	Date         string
	Title        string
	Routine      RoutineType
	AckAction    string
	SnoozeAction string
	EmittedAt    time.Time
}

// Reminder action identifiers.
const (
	ActionAcknowledge = "ack"
	ActionSnooze      = "snooze"
	ActionSkip        = "skip"
)
