package calibrator

import (
	"fmt"
	"time"

	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/metrics"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// BandHalfWidth is half the calibration band around an item's window
// start. The full band (10 minutes) is wider than the dispatcher's
// guaranteed minimum tick spacing, so a tick landing anywhere inside
// it cannot miss the item.
const BandHalfWidth = 5 * time.Minute

// Calibrator evaluates which of today's pending items are entering
// their calibration band and emits at most one reminder per item per
// armed cycle.
type Calibrator struct {
	store  storage.Store
	broker *events.Broker
}

// NewCalibrator creates a new calibrator
func NewCalibrator(store storage.Store, broker *events.Broker) *Calibrator {
	return &Calibrator{
		store:  store,
		broker: broker,
	}
}

// Evaluate runs one calibration pass at the given instant and returns
// the reminders emitted. Correct under arbitrarily delayed, skipped,
// or clustered ticks: dedupe state, not tick cadence, bounds
// emissions. One malformed item never suppresses reminders for the
// rest of the day.
func (c *Calibrator) Evaluate(now time.Time) ([]*types.Reminder, error) {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.CalibrationDuration)
		metrics.CalibrationCyclesTotal.Inc()
	}()

	logger := log.WithComponent("calibrator")
	date := now.Format(types.DateFormat)

	items, err := c.store.ListItemsByDate(date)
	if err != nil {
		return nil, fmt.Errorf("failed to list items for %s: %w", date, err)
	}

	metrics.ItemsTotal.Reset()
	for _, item := range items {
		metrics.ItemsTotal.WithLabelValues(string(item.Source), string(item.Status)).Inc()
	}

	var emitted []*types.Reminder
	for _, item := range items {
		reminder, err := c.evaluateItem(item, now, date)
		if err != nil {
			// Per-item isolation: log and keep going
			logger.Error().Err(err).Str("item_id", item.ID).Msg("item evaluation failed")
			continue
		}
		if reminder != nil {
			emitted = append(emitted, reminder)
		}
	}

	if len(emitted) > 0 {
		logger.Info().Str("date", date).Int("reminders", len(emitted)).Msg("calibration pass emitted reminders")
	}

	return emitted, nil
}

func (c *Calibrator) evaluateItem(item *types.PlanItem, now time.Time, date string) (*types.Reminder, error) {
	// Snoozed items are excluded from band evaluation; they re-surface
	// once their shifted window start comes back into reach, then get
	// evaluated like any other pending item.
	if item.Status == types.StatusSnoozed {
		if !c.resurface(item, now) {
			return nil, nil
		}
	}
	if item.Status != types.StatusPending {
		return nil, nil
	}

	if !inBand(now, item.WindowStart) {
		return nil, nil
	}

	notified, err := c.alreadyNotified(item.ID, date)
	if err != nil {
		return nil, err
	}
	if notified {
		return nil, nil
	}

	if err := c.store.UpsertNotificationState(item.ID, date, now); err != nil {
		return nil, fmt.Errorf("failed to record notification state: %w", err)
	}

	reminder := &types.Reminder{
		ItemID:       item.ID,
		Date:         date,
		Title:        item.Title,
		Routine:      item.Routine,
		AckAction:    types.ActionAcknowledge,
		SnoozeAction: types.ActionSnooze,
		EmittedAt:    now,
	}

	metrics.RemindersEmitted.Inc()
	if c.broker != nil {
		c.broker.Publish(&events.Event{
			Type:    events.EventReminderEmitted,
			Message: fmt.Sprintf("reminder: %s", item.Title),
			Metadata: map[string]string{
				"item_id": item.ID,
				"date":    date,
				"routine": string(item.Routine),
			},
		})
	}

	return reminder, nil
}

// resurface returns a snoozed item to pending once its shifted window
// start is within reach of the band. The snooze action cleared the
// item's dedupe state, so the re-armed item may emit once more.
func (c *Calibrator) resurface(item *types.PlanItem, now time.Time) bool {
	if now.Before(item.WindowStart.Add(-BandHalfWidth)) {
		return false
	}
	applied, err := c.store.ApplyStatus(item.ID, types.StatusPending, types.StatusSnoozed)
	if err != nil {
		logger := log.WithComponent("calibrator")
		logger.Error().Err(err).Str("item_id", item.ID).Msg("failed to resurface snoozed item")
		return false
	}
	if applied {
		item.Status = types.StatusPending
		logger := log.WithComponent("calibrator")
		logger.Debug().Str("item_id", item.ID).Msg("snoozed item re-armed")
	}
	return applied
}

// alreadyNotified reports whether the item has an emission recorded
// for the given date.
func (c *Calibrator) alreadyNotified(itemID, date string) (bool, error) {
	state, err := c.store.GetNotificationState(itemID)
	if err == storage.ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to get notification state: %w", err)
	}
	return state.LastNotifiedAt != nil && state.Date == date, nil
}

// inBand reports whether now falls inside [start-5m, start+5m].
func inBand(now, start time.Time) bool {
	return !now.Before(start.Add(-BandHalfWidth)) && !now.After(start.Add(BandHalfWidth))
}
