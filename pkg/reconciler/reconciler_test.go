package reconciler

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// staticAnchors is a test AnchorProvider with fixed wake/bed times.
type staticAnchors struct {
	wake time.Time
	bed  time.Time
	err  error
}

func (a *staticAnchors) Anchors(date string) (time.Time, time.Time, error) {
	return a.wake, a.bed, a.err
}

func newTestReconciler(t *testing.T, wake, bed time.Time) (*Reconciler, storage.Store) {
	t.Helper()
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewReconciler(store, &staticAnchors{wake: wake, bed: bed}, nil), store
}

const testDate = "2026-09-01"

func testAnchors() (time.Time, time.Time) {
	return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 1, 23, 0, 0, 0, time.UTC)
}

// TestReconcileFreshDay verifies a first pass creates the plan day and
// all routine items as pending.
func TestReconcileFreshDay(t *testing.T) {
	wake, bed := testAnchors()
	recon, store := newTestReconciler(t, wake, bed)

	muts, err := recon.Reconcile(testDate)
	require.NoError(t, err)
	assert.Equal(t, 9, muts.Inserted)
	assert.Equal(t, 0, muts.WindowsUpdated)
	assert.Equal(t, 0, muts.Deleted)

	day, err := store.GetPlanDay(testDate)
	require.NoError(t, err)
	assert.Equal(t, types.ModeNormal, day.Mode)

	items, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)
	require.Len(t, items, 9)
	for _, item := range items {
		assert.Equal(t, types.StatusPending, item.Status)
		assert.Equal(t, types.SourceDeterministic, item.Source)
	}
}

// TestReconcileIdempotent verifies a second pass with identical anchors
// applies zero mutations.
func TestReconcileIdempotent(t *testing.T) {
	wake, bed := testAnchors()
	recon, store := newTestReconciler(t, wake, bed)

	_, err := recon.Reconcile(testDate)
	require.NoError(t, err)

	before, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)

	muts, err := recon.Reconcile(testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, muts.Total())

	after, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)
	require.Len(t, after, len(before))
	for i := range before {
		assert.Equal(t, before[i].ID, after[i].ID)
	}
}

// TestReconcileShiftedAnchors verifies a later wake estimate rewrites
// pending windows in place without changing item identity.
func TestReconcileShiftedAnchors(t *testing.T) {
	wake, bed := testAnchors()
	anchors := &staticAnchors{wake: wake, bed: bed}
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	recon := NewReconciler(store, anchors, nil)

	_, err = recon.Reconcile(testDate)
	require.NoError(t, err)
	before, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)

	// User woke an hour late; bed target holds.
	anchors.wake = wake.Add(time.Hour)

	muts, err := recon.Reconcile(testDate)
	require.NoError(t, err)
	assert.Equal(t, 0, muts.Inserted)
	assert.Equal(t, 0, muts.Deleted)
	assert.Greater(t, muts.WindowsUpdated, 0)

	after, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)
	require.Len(t, after, len(before))

	byKey := func(items []*types.PlanItem) map[string]*types.PlanItem {
		m := make(map[string]*types.PlanItem)
		for _, item := range items {
			m[item.Key()] = item
		}
		return m
	}
	beforeByKey, afterByKey := byKey(before), byKey(after)

	// Wake-anchored items moved; identity is stable.
	assert.Equal(t, beforeByKey["wake"].ID, afterByKey["wake"].ID)
	assert.True(t, afterByKey["wake"].WindowStart.Equal(beforeByKey["wake"].WindowStart.Add(time.Hour)))
	// Bed-anchored items did not move.
	assert.True(t, afterByKey["sleep"].WindowStart.Equal(beforeByKey["sleep"].WindowStart))
}

// TestReconcilePreservesActedStatus verifies regeneration never resets
// done, skipped, or snoozed rows.
func TestReconcilePreservesActedStatus(t *testing.T) {
	tests := []struct {
		name   string
		status types.ItemStatus
	}{
		{"done", types.StatusDone},
		{"skipped", types.StatusSkipped},
		{"snoozed", types.StatusSnoozed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wake, bed := testAnchors()
			anchors := &staticAnchors{wake: wake, bed: bed}
			store, err := storage.NewBoltStore(t.TempDir())
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			recon := NewReconciler(store, anchors, nil)

			_, err = recon.Reconcile(testDate)
			require.NoError(t, err)

			items, err := store.ListItemsByDate(testDate)
			require.NoError(t, err)
			var target *types.PlanItem
			for _, item := range items {
				if item.Routine == types.RoutineMedsAM {
					target = item
				}
			}
			require.NotNil(t, target)
			applied, err := store.ApplyStatus(target.ID, tt.status, types.StatusPending)
			require.NoError(t, err)
			require.True(t, applied)

			// Shift anchors and regenerate: the acted row keeps its
			// status and old window.
			anchors.wake = wake.Add(30 * time.Minute)
			_, err = recon.Reconcile(testDate)
			require.NoError(t, err)

			got, err := store.GetItem(target.ID)
			require.NoError(t, err)
			assert.Equal(t, tt.status, got.Status)
			assert.True(t, got.WindowStart.Equal(target.WindowStart))
		})
	}
}

// TestReconcileManualItemsUntouched verifies manual tasks survive
// regeneration even when anchors shift.
func TestReconcileManualItemsUntouched(t *testing.T) {
	wake, bed := testAnchors()
	anchors := &staticAnchors{wake: wake, bed: bed}
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	recon := NewReconciler(store, anchors, nil)

	_, err = recon.Reconcile(testDate)
	require.NoError(t, err)

	manual := &types.PlanItem{
		ID:          "manual-1",
		Date:        testDate,
		Title:       "Call the pharmacy",
		Routine:     types.RoutineOther,
		Source:      types.SourceManual,
		Window:      types.WindowAfternoon,
		Status:      types.StatusPending,
		WindowStart: wake.Add(6 * time.Hour),
		WindowEnd:   wake.Add(6*time.Hour + 15*time.Minute),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.InsertItem(manual))

	anchors.wake = wake.Add(time.Hour)
	_, err = recon.Reconcile(testDate)
	require.NoError(t, err)

	got, err := store.GetItem("manual-1")
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, got.Status)
	assert.True(t, got.WindowStart.Equal(manual.WindowStart))

	items, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)
	assert.Len(t, items, 10)
}

// TestReconcileDeletesStaleItems verifies deterministic rows absent
// from the generated set are removed.
func TestReconcileDeletesStaleItems(t *testing.T) {
	wake, bed := testAnchors()
	recon, store := newTestReconciler(t, wake, bed)

	_, err := recon.Reconcile(testDate)
	require.NoError(t, err)

	// Simulate a leftover row from an older generator version.
	stale := &types.PlanItem{
		ID:          "stale-1",
		Date:        testDate,
		Title:       "Second breakfast",
		Routine:     types.RoutineMeal,
		Slot:        "second_breakfast",
		Source:      types.SourceDeterministic,
		Status:      types.StatusPending,
		WindowStart: wake.Add(2 * time.Hour),
		WindowEnd:   wake.Add(2*time.Hour + 30*time.Minute),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, store.InsertItem(stale))

	muts, err := recon.Reconcile(testDate)
	require.NoError(t, err)
	assert.Equal(t, 1, muts.Deleted)

	_, err = store.GetItem("stale-1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestReconcileAnchorFailure verifies a failing anchor provider aborts
// the pass before any write.
func TestReconcileAnchorFailure(t *testing.T) {
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	recon := NewReconciler(store, &staticAnchors{err: errors.New("no anchors")}, nil)

	_, err = recon.Reconcile(testDate)
	require.Error(t, err)

	_, err = store.GetPlanDay(testDate)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

// TestReconcileMealSlots verifies the three meal occurrences reconcile
// independently.
func TestReconcileMealSlots(t *testing.T) {
	wake, bed := testAnchors()
	recon, store := newTestReconciler(t, wake, bed)

	_, err := recon.Reconcile(testDate)
	require.NoError(t, err)

	items, err := store.ListItemsByDate(testDate)
	require.NoError(t, err)

	slots := make(map[string]bool)
	for _, item := range items {
		if item.Routine == types.RoutineMeal {
			slots[item.Slot] = true
		}
	}
	assert.Equal(t, map[string]bool{"breakfast": true, "lunch": true, "dinner": true}, slots)
}
