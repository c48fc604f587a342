package projector

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// Urgency tier boundaries in minutes remaining until window end.
const (
	moderateBelow = 30 // <= 30m remaining: moderate
	urgentBelow   = 10 // < 10m remaining (or overdue): urgent
)

// Projector derives the widget snapshot from stored plan state. It is
// read-only and safe to call at arbitrary frequency; the last computed
// snapshot is cached for surfaces that want a cheap stale read.
type Projector struct {
	store storage.Store

	mu   sync.RWMutex
	last *types.WidgetSnapshot
}

// NewProjector creates a new projector
func NewProjector(store storage.Store) *Projector {
	return &Projector{store: store}
}

// Project computes the snapshot for the given instant: the next
// pending item, its urgency tier, and a short human time-until string.
func (p *Projector) Project(now time.Time) (*types.WidgetSnapshot, error) {
	date := now.Format(types.DateFormat)

	items, err := p.store.ListItemsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for %s: %w", date, err)
	}

	mode := types.ModeNormal
	if day, err := p.store.GetPlanDay(date); err == nil {
		mode = day.Mode
	}

	snapshot := &types.WidgetSnapshot{
		Mode:       mode,
		ComputedAt: now,
	}

	if next := selectNext(items); next != nil {
		snapshot.HasTask = true
		snapshot.ItemID = next.ID
		snapshot.Title = next.Title
		snapshot.Routine = next.Routine
		snapshot.Urgency = urgency(now, next.WindowEnd)
		snapshot.TimeUntil = timeUntil(now, next.WindowStart, next.WindowEnd)
	}

	p.mu.Lock()
	p.last = snapshot
	p.mu.Unlock()

	return snapshot, nil
}

// Last returns the most recently computed snapshot, or nil.
func (p *Projector) Last() *types.WidgetSnapshot {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// selectNext picks the earliest-windowEnd pending item. Ties break by
// earliest window start, then routine type name, so the selection is
// deterministic across recomputation.
func selectNext(items []*types.PlanItem) *types.PlanItem {
	var pending []*types.PlanItem
	for _, item := range items {
		if item.Status == types.StatusPending {
			pending = append(pending, item)
		}
	}
	if len(pending) == 0 {
		return nil
	}

	sort.Slice(pending, func(i, j int) bool {
		a, b := pending[i], pending[j]
		if !a.WindowEnd.Equal(b.WindowEnd) {
			return a.WindowEnd.Before(b.WindowEnd)
		}
		if !a.WindowStart.Equal(b.WindowStart) {
			return a.WindowStart.Before(b.WindowStart)
		}
		return a.Routine < b.Routine
	})
	return pending[0]
}

// urgency classifies minutes remaining until window end:
// more than 30 normal, 10-30 inclusive moderate, under 10 or already
// past urgent.
func urgency(now, windowEnd time.Time) types.UrgencyTier {
	remaining := windowEnd.Sub(now)
	switch {
	case remaining > moderateBelow*time.Minute:
		return types.UrgencyNormal
	case remaining >= urgentBelow*time.Minute:
		return types.UrgencyModerate
	default:
		return types.UrgencyUrgent
	}
}

// timeUntil renders a short human string from the deltas to the
// item's window bounds.
func timeUntil(now, start, end time.Time) string {
	if now.Before(start) {
		return "Starts in " + humanDuration(start.Sub(now))
	}
	if !now.After(end) {
		return "Now"
	}
	return "Overdue by " + humanDuration(now.Sub(end))
}

func humanDuration(d time.Duration) string {
	d = d.Round(time.Minute)
	if d < time.Minute {
		d = time.Minute
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	if h > 0 && m > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	if h > 0 {
		return fmt.Sprintf("%dh", h)
	}
	return fmt.Sprintf("%dm", m)
}
