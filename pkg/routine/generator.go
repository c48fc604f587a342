package routine

import (
	"errors"
	"time"

	"github.com/cadencehq/cadence/pkg/types"
)

// ErrInvalidAnchors is returned when the bed target does not fall after
// the wake estimate. A regeneration pass with bad anchors fails whole,
// never partially.
var ErrInvalidAnchors = errors.New("bed target must be after wake estimate")

// Occurrence is one generated routine slot for a day.
type Occurrence struct {
	Routine     types.RoutineType
	Slot        string
	Title       string
	Window      types.TimeWindow
	WindowStart time.Time
	WindowEnd   time.Time
	IsCore      bool
}

// Key returns the identity of the occurrence within its day, matching
// PlanItem.Key for stored rows.
func (o *Occurrence) Key() string {
	if o.Slot == "" {
		return string(o.Routine)
	}
	return string(o.Routine) + "/" + o.Slot
}

// anchor selects which end of the day an entry's offset is measured from.
type anchor int

const (
	fromWake anchor = iota
	fromBed
)

// entry describes one fixed routine: its offset from an anchor and its
// window width. Offsets are chosen so that on the nominal day the
// windows are strictly ordered and non-overlapping.
type entry struct {
	routine types.RoutineType
	slot    string
	title   string
	anchor  anchor
	offset  time.Duration // from wake, or before bed
	width   time.Duration
	core    bool
}

// nominalSpan is the wake-to-bed span the offsets were designed around.
// minSpan is the smallest span for which the fixed offsets still yield
// non-overlapping windows; below it spacing compresses proportionally.
const (
	nominalSpan = 15 * time.Hour
	minSpan     = 14 * time.Hour
)

var schedule = []entry{
	{types.RoutineWake, "", "Wake up", fromWake, 0, 15 * time.Minute, true},
	{types.RoutineMedsAM, "", "Morning medication", fromWake, 30 * time.Minute, 30 * time.Minute, true},
	{types.RoutineMeal, "breakfast", "Breakfast", fromWake, time.Hour, 45 * time.Minute, false},
	{types.RoutineMeal, "lunch", "Lunch", fromWake, 4*time.Hour + 30*time.Minute, time.Hour, false},
	{types.RoutineExercise, "", "Exercise", fromWake, 9 * time.Hour, time.Hour, false},
	{types.RoutineMeal, "dinner", "Dinner", fromBed, 4 * time.Hour, time.Hour, false},
	{types.RoutineWindDown, "", "Wind down", fromBed, time.Hour, 30 * time.Minute, true},
	{types.RoutineMedsPM, "", "Evening medication", fromBed, 30 * time.Minute, 15 * time.Minute, true},
	{types.RoutineSleep, "", "Lights out", fromBed, 0, 15 * time.Minute, true},
}

// Generate maps (date, wake estimate, bed target) to the day's ordered
// routine occurrences. Pure and deterministic: the same inputs always
// yield the same set in the same order, with strictly chronological,
// non-overlapping windows.
//
// When the wake-to-bed span drops below the minimum required spacing,
// all offsets and widths compress proportionally instead of producing
// inverted or overlapping windows.
func Generate(date string, wakeEstimate, bedTarget time.Time) ([]*Occurrence, error) {
	if !bedTarget.After(wakeEstimate) {
		return nil, ErrInvalidAnchors
	}

	span := bedTarget.Sub(wakeEstimate)
	scale := 1.0
	if span < minSpan {
		scale = float64(span) / float64(nominalSpan)
	}

	occurrences := make([]*Occurrence, 0, len(schedule))
	for _, e := range schedule {
		var start time.Time
		width := e.width

		if scale == 1.0 {
			switch e.anchor {
			case fromWake:
				start = wakeEstimate.Add(e.offset)
			case fromBed:
				start = bedTarget.Add(-e.offset)
			}
		} else {
			// Compressed day: place everything by its nominal offset
			// from wake, scaled to the actual span.
			nominal := e.offset
			if e.anchor == fromBed {
				nominal = nominalSpan - e.offset
			}
			start = wakeEstimate.Add(scaleDuration(nominal, scale))
			width = scaleDuration(e.width, scale)
		}

		start = start.Truncate(time.Minute)
		if width < time.Minute {
			width = time.Minute
		}
		occurrences = append(occurrences, &Occurrence{
			Routine:     e.routine,
			Slot:        e.slot,
			Title:       e.title,
			Window:      Classify(start),
			WindowStart: start,
			WindowEnd:   start.Add(width),
			IsCore:      e.core,
		})
	}

	// Rounding under heavy compression can pull neighbouring windows
	// together; push each window past the previous one so the sequence
	// stays strictly chronological.
	for i := 1; i < len(occurrences); i++ {
		prev := occurrences[i-1]
		cur := occurrences[i]
		if cur.WindowStart.Before(prev.WindowEnd) {
			width := cur.WindowEnd.Sub(cur.WindowStart)
			cur.WindowStart = prev.WindowEnd
			cur.WindowEnd = cur.WindowStart.Add(width)
			cur.Window = Classify(cur.WindowStart)
		}
	}

	return occurrences, nil
}

func scaleDuration(d time.Duration, scale float64) time.Duration {
	scaled := time.Duration(float64(d) * scale)
	return scaled.Truncate(time.Minute)
}

// Classify assigns a time-of-day bucket from the window start's local
// clock time. Boundaries are fixed: 05:00-11:59 morning, 12:00-16:59
// afternoon, 17:00-21:59 evening, 22:00-04:59 night.
func Classify(t time.Time) types.TimeWindow {
	h := t.Hour()
	switch {
	case h >= 5 && h < 12:
		return types.WindowMorning
	case h >= 12 && h < 17:
		return types.WindowAfternoon
	case h >= 17 && h < 22:
		return types.WindowEvening
	default:
		return types.WindowNight
	}
}

// ParseAnchors resolves HH:MM wake/bed clock times against a date in
// the given location. A bed time at or before the wake time is taken
// to mean the following day (e.g. wake 23:00, bed 07:00).
func ParseAnchors(date, wake, bed string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(types.DateFormat, date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	wakeAt, err := atClock(day, wake, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	bedAt, err := atClock(day, bed, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !bedAt.After(wakeAt) {
		bedAt = bedAt.AddDate(0, 0, 1)
	}
	return wakeAt, bedAt, nil
}

func atClock(day time.Time, clock string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation("15:04", clock, loc)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, loc), nil
}
