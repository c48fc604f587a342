package mode

import (
	"fmt"
	"time"

	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// Policy configures when a day tips into recovery.
type Policy struct {
	// OverdueCoreThreshold is how many core items must be overdue
	// (pending past their window end) or skipped before the day's
	// mode becomes recovery.
	OverdueCoreThreshold int
}

// DefaultPolicy returns the default recovery policy.
func DefaultPolicy() Policy {
	return Policy{OverdueCoreThreshold: 2}
}

// Evaluator derives the day's operating mode from item statuses. It
// recomputes deterministically from the current item set and never
// mutates item rows; only the PlanDay record is written.
type Evaluator struct {
	store  storage.Store
	broker *events.Broker
	policy Policy
}

// NewEvaluator creates a new mode evaluator
func NewEvaluator(store storage.Store, broker *events.Broker, policy Policy) *Evaluator {
	if policy.OverdueCoreThreshold <= 0 {
		policy = DefaultPolicy()
	}
	return &Evaluator{
		store:  store,
		broker: broker,
		policy: policy,
	}
}

// Evaluate computes the mode for the date at the given instant.
func (e *Evaluator) Evaluate(date string, now time.Time, items []*types.PlanItem) types.DayMode {
	missedCore := 0
	for _, item := range items {
		if !item.IsCore {
			continue
		}
		overdue := item.Status == types.StatusPending && now.After(item.WindowEnd)
		if overdue || item.Status == types.StatusSkipped {
			missedCore++
		}
	}
	if missedCore >= e.policy.OverdueCoreThreshold {
		return types.ModeRecovery
	}
	return types.ModeNormal
}

// Refresh recomputes the date's mode and persists it to the PlanDay
// when it changed. Idempotent.
func (e *Evaluator) Refresh(date string, now time.Time) (types.DayMode, error) {
	day, err := e.store.GetPlanDay(date)
	if err == storage.ErrNotFound {
		// No plan yet; nothing to derive
		return types.ModeNormal, nil
	}
	if err != nil {
		return types.ModeNormal, fmt.Errorf("failed to get plan day %s: %w", date, err)
	}

	items, err := e.store.ListItemsByDate(date)
	if err != nil {
		return day.Mode, fmt.Errorf("failed to list items for %s: %w", date, err)
	}

	computed := e.Evaluate(date, now, items)
	if computed == day.Mode {
		return computed, nil
	}

	if err := e.store.SetPlanDayMode(date, computed); err != nil {
		return day.Mode, fmt.Errorf("failed to set mode for %s: %w", date, err)
	}

	logger := log.WithComponent("mode")
	logger.Info().
		Str("date", date).
		Str("from", string(day.Mode)).
		Str("to", string(computed)).
		Msg("day mode changed")

	if e.broker != nil {
		e.broker.Publish(&events.Event{
			Type:    events.EventModeChanged,
			Message: fmt.Sprintf("mode changed to %s", computed),
			Metadata: map[string]string{
				"date": date,
				"mode": string(computed),
			},
		})
	}

	return computed, nil
}
