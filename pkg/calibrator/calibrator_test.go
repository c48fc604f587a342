package calibrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

func newTestCalibrator(t *testing.T) (*Calibrator, storage.Store) {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewCalibrator(store, nil), store
}

func insertItem(t *testing.T, store storage.Store, id string, status types.ItemStatus, start time.Time) {
	t.Helper()
	require.NoError(t, store.InsertItem(&types.PlanItem{
		ID:          id,
		Date:        start.Format(types.DateFormat),
		Title:       "Morning medication",
		Routine:     types.RoutineMedsAM,
		Source:      types.SourceDeterministic,
		Status:      status,
		IsCore:      true,
		WindowStart: start,
		WindowEnd:   start.Add(30 * time.Minute),
		CreatedAt:   start,
	}))
}

// TestEvaluateEmitsOncePerDay verifies the dedupe rule: an item in band
// emits on the first pass and never again that day, regardless of how
// many ticks land inside the band.
func TestEvaluateEmitsOncePerDay(t *testing.T) {
	calib, store := newTestCalibrator(t)
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	insertItem(t, store, "item-1", types.StatusPending, start)

	reminders, err := calib.Evaluate(start.Add(3 * time.Minute))
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "item-1", reminders[0].ItemID)
	assert.Equal(t, types.ActionAcknowledge, reminders[0].AckAction)
	assert.Equal(t, types.ActionSnooze, reminders[0].SnoozeAction)

	// A second tick one minute later, still in band: nothing.
	reminders, err = calib.Evaluate(start.Add(4 * time.Minute))
	require.NoError(t, err)
	assert.Empty(t, reminders)

	// Much later the same day: still nothing.
	reminders, err = calib.Evaluate(start.Add(6 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

// TestEvaluateBandBoundaries probes the edges of the calibration band.
func TestEvaluateBandBoundaries(t *testing.T) {
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name  string
		now   time.Time
		emits bool
	}{
		{"just before band", start.Add(-BandHalfWidth - time.Second), false},
		{"band opens", start.Add(-BandHalfWidth), true},
		{"at window start", start, true},
		{"band closes", start.Add(BandHalfWidth), true},
		{"just after band", start.Add(BandHalfWidth + time.Second), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calib, store := newTestCalibrator(t)
			insertItem(t, store, "item-1", types.StatusPending, start)

			reminders, err := calib.Evaluate(tt.now)
			require.NoError(t, err)
			if tt.emits {
				assert.Len(t, reminders, 1)
			} else {
				assert.Empty(t, reminders)
			}
		})
	}
}

// TestEvaluateSkipsNonPending verifies done, skipped, and out-of-reach
// snoozed items never emit.
func TestEvaluateSkipsNonPending(t *testing.T) {
	tests := []struct {
		name   string
		status types.ItemStatus
	}{
		{"done", types.StatusDone},
		{"skipped", types.StatusSkipped},
	}

	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calib, store := newTestCalibrator(t)
			insertItem(t, store, "item-1", tt.status, start)

			reminders, err := calib.Evaluate(start)
			require.NoError(t, err)
			assert.Empty(t, reminders)
		})
	}
}

// TestEvaluateSnoozeResurface verifies a snoozed item re-arms when its
// shifted window comes due and emits exactly one more reminder.
func TestEvaluateSnoozeResurface(t *testing.T) {
	calib, store := newTestCalibrator(t)
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	insertItem(t, store, "item-1", types.StatusPending, start)

	// First emission in band.
	reminders, err := calib.Evaluate(start)
	require.NoError(t, err)
	require.Len(t, reminders, 1)

	// User snoozes: window shifts 15m, dedupe state cleared.
	applied, err := store.SnoozeItem("item-1", 15*time.Minute)
	require.NoError(t, err)
	require.True(t, applied)
	require.NoError(t, store.DeleteNotificationState("item-1"))

	// A tick before the shifted band opens does nothing and leaves the
	// item snoozed.
	reminders, err = calib.Evaluate(start.Add(5 * time.Minute))
	require.NoError(t, err)
	assert.Empty(t, reminders)
	got, err := store.GetItem("item-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusSnoozed, got.Status)

	// Once the shifted band opens the item resurfaces and emits in the
	// same pass.
	reminders, err = calib.Evaluate(start.Add(12 * time.Minute))
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	got, err = store.GetItem("item-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)

	// And the fresh dedupe record holds for the rest of the day.
	reminders, err = calib.Evaluate(start.Add(14 * time.Minute))
	require.NoError(t, err)
	assert.Empty(t, reminders)
}

// TestEvaluateDelayedTick verifies a tick that arrives late inside the
// band still emits: cadence is a lower bound, not a schedule.
func TestEvaluateDelayedTick(t *testing.T) {
	calib, store := newTestCalibrator(t)
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	insertItem(t, store, "item-1", types.StatusPending, start)

	// The only tick of the morning lands at the band's far edge.
	reminders, err := calib.Evaluate(start.Add(5 * time.Minute))
	require.NoError(t, err)
	assert.Len(t, reminders, 1)
}

// TestEvaluateMultipleItems verifies independent items each emit once
// when their bands overlap a single tick.
func TestEvaluateMultipleItems(t *testing.T) {
	calib, store := newTestCalibrator(t)
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	insertItem(t, store, "item-1", types.StatusPending, start)
	insertItem(t, store, "item-2", types.StatusPending, start.Add(4*time.Minute))
	insertItem(t, store, "item-3", types.StatusPending, start.Add(3*time.Hour))

	reminders, err := calib.Evaluate(start.Add(2 * time.Minute))
	require.NoError(t, err)
	assert.Len(t, reminders, 2)
}

// TestEvaluateOtherDaysExcluded verifies only the current date's items
// are considered.
func TestEvaluateOtherDaysExcluded(t *testing.T) {
	calib, store := newTestCalibrator(t)
	start := time.Date(2026, 9, 1, 8, 30, 0, 0, time.UTC)
	insertItem(t, store, "item-1", types.StatusPending, start)

	// Evaluate at the same clock time the next day.
	reminders, err := calib.Evaluate(start.Add(24 * time.Hour))
	require.NoError(t, err)
	assert.Empty(t, reminders)
}
