package mode

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

func coreItem(id string, status types.ItemStatus, end time.Time) *types.PlanItem {
	return &types.PlanItem{
		ID:          id,
		Date:        end.Format(types.DateFormat),
		Routine:     types.RoutineMedsAM,
		Source:      types.SourceDeterministic,
		Status:      status,
		IsCore:      true,
		WindowStart: end.Add(-30 * time.Minute),
		WindowEnd:   end,
	}
}

// TestEvaluate covers the recovery threshold against mixes of overdue,
// skipped, done, and non-core items.
func TestEvaluate(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		items    []*types.PlanItem
		expected types.DayMode
	}{
		{
			name:     "empty day is normal",
			items:    nil,
			expected: types.ModeNormal,
		},
		{
			name: "one overdue core stays normal",
			items: []*types.PlanItem{
				coreItem("a", types.StatusPending, past),
			},
			expected: types.ModeNormal,
		},
		{
			name: "two overdue core tips to recovery",
			items: []*types.PlanItem{
				coreItem("a", types.StatusPending, past),
				coreItem("b", types.StatusPending, past),
			},
			expected: types.ModeRecovery,
		},
		{
			name: "overdue plus skipped counts together",
			items: []*types.PlanItem{
				coreItem("a", types.StatusPending, past),
				coreItem("b", types.StatusSkipped, future),
			},
			expected: types.ModeRecovery,
		},
		{
			name: "done core never counts",
			items: []*types.PlanItem{
				coreItem("a", types.StatusDone, past),
				coreItem("b", types.StatusDone, past),
				coreItem("c", types.StatusPending, past),
			},
			expected: types.ModeNormal,
		},
		{
			name: "pending core still inside window never counts",
			items: []*types.PlanItem{
				coreItem("a", types.StatusPending, future),
				coreItem("b", types.StatusPending, future),
			},
			expected: types.ModeNormal,
		},
		{
			name: "non-core misses never count",
			items: []*types.PlanItem{
				{ID: "x", Status: types.StatusSkipped, WindowEnd: past},
				{ID: "y", Status: types.StatusPending, WindowEnd: past},
				coreItem("a", types.StatusPending, past),
			},
			expected: types.ModeNormal,
		},
		{
			name: "snoozed core never counts",
			items: []*types.PlanItem{
				coreItem("a", types.StatusSnoozed, past),
				coreItem("b", types.StatusSnoozed, past),
			},
			expected: types.ModeNormal,
		},
	}

	eval := NewEvaluator(nil, nil, DefaultPolicy())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, eval.Evaluate("2026-09-01", now, tt.items))
		})
	}
}

// TestEvaluateCustomThreshold verifies the threshold is policy-driven.
func TestEvaluateCustomThreshold(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)

	eval := NewEvaluator(nil, nil, Policy{OverdueCoreThreshold: 1})
	mode := eval.Evaluate("2026-09-01", now, []*types.PlanItem{
		coreItem("a", types.StatusSkipped, past),
	})
	assert.Equal(t, types.ModeRecovery, mode)
}

// TestRefresh verifies mode persistence, hysteresis back to normal,
// and the missing-day case.
func TestRefresh(t *testing.T) {
	store, err := storage.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	eval := NewEvaluator(store, nil, DefaultPolicy())

	// No plan day yet: normal, no write.
	mode, err := eval.Refresh("2026-09-01", now)
	require.NoError(t, err)
	assert.Equal(t, types.ModeNormal, mode)
	_, err = store.GetPlanDay("2026-09-01")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.InsertPlanDay(&types.PlanDay{
		Date: "2026-09-01", Mode: types.ModeNormal, CreatedAt: now,
	}))
	require.NoError(t, store.InsertItem(coreItem("a", types.StatusPending, now.Add(-time.Hour))))
	require.NoError(t, store.InsertItem(coreItem("b", types.StatusPending, now.Add(-time.Hour))))

	// Two overdue core items: recovery persists.
	mode, err = eval.Refresh("2026-09-01", now)
	require.NoError(t, err)
	assert.Equal(t, types.ModeRecovery, mode)
	day, err := store.GetPlanDay("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, types.ModeRecovery, day.Mode)

	// User catches up on one: back to normal.
	applied, err := store.ApplyStatus("a", types.StatusDone, types.StatusPending)
	require.NoError(t, err)
	require.True(t, applied)

	mode, err = eval.Refresh("2026-09-01", now)
	require.NoError(t, err)
	assert.Equal(t, types.ModeNormal, mode)
	day, err = store.GetPlanDay("2026-09-01")
	require.NoError(t, err)
	assert.Equal(t, types.ModeNormal, day.Mode)
}
