package assist

import (
	"fmt"
	"time"

	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/routine"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
	"github.com/google/uuid"
)

// Injector inserts suggestions as manual plan items. Manual items
// never touch deterministic bookkeeping: regeneration ignores them
// entirely.
type Injector struct {
	store  storage.Store
	broker *events.Broker
}

// NewInjector creates a new injector
func NewInjector(store storage.Store, broker *events.Broker) *Injector {
	return &Injector{
		store:  store,
		broker: broker,
	}
}

// Inject inserts the suggestions for a target date starting at the
// given instant, back to back. Returns the created items.
func (i *Injector) Inject(date string, startAt time.Time, suggestions []Suggestion) ([]*types.PlanItem, error) {
	if len(suggestions) == 0 {
		return nil, nil
	}

	// Items need a plan day to hang off; manual insertion may precede
	// the first generation run of the date
	if _, err := i.store.GetPlanDay(date); err == storage.ErrNotFound {
		day := &types.PlanDay{
			Date:      date,
			Mode:      types.ModeNormal,
			CreatedAt: time.Now(),
		}
		if err := i.store.InsertPlanDay(day); err != nil {
			return nil, fmt.Errorf("failed to create plan day %s: %w", date, err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to get plan day %s: %w", date, err)
	}

	var created []*types.PlanItem
	cursor := startAt
	for _, s := range suggestions {
		width := time.Duration(s.DurationMinutes) * time.Minute
		item := &types.PlanItem{
			ID:          uuid.New().String(),
			Date:        date,
			Title:       s.Title,
			Routine:     types.RoutineOther,
			Source:      types.SourceManual,
			Window:      routine.Classify(cursor),
			Status:      types.StatusPending,
			WindowStart: cursor,
			WindowEnd:   cursor.Add(width),
			CreatedAt:   time.Now(),
		}
		if err := i.store.InsertItem(item); err != nil {
			return created, fmt.Errorf("failed to insert task %q: %w", s.Title, err)
		}
		created = append(created, item)
		cursor = cursor.Add(width)

		if i.broker != nil {
			i.broker.Publish(&events.Event{
				Type:    events.EventTaskInjected,
				Message: fmt.Sprintf("task injected: %s", s.Title),
				Metadata: map[string]string{
					"item_id": item.ID,
					"date":    date,
					"effort":  s.Effort,
				},
			})
		}
	}

	logger := log.WithComponent("assist")
	logger.Info().
		Str("date", date).
		Int("tasks", len(created)).
		Msg("ad-hoc tasks injected")

	return created, nil
}
