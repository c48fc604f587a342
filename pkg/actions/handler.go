package actions

import (
	"fmt"
	"time"

	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/metrics"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
)

// SnoozeDelay is how far a snooze shifts an item's reminder window.
const SnoozeDelay = 15 * time.Minute

// Action is one user reminder interaction queued for processing.
type Action struct {
	Kind   string // types.ActionAcknowledge, ActionSnooze, ActionSkip
	ItemID string
}

// Handler applies user reminder actions as conditional status
// transitions against the store. Transitions race freely with the
// periodic evaluators; atomicity comes from the store's conditional
// read-modify-write, so a lost race is a silent no-op, never
// corruption.
type Handler struct {
	store  storage.Store
	broker *events.Broker
	queue  chan Action
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHandler creates a handler with a bounded action queue.
func NewHandler(store storage.Store, broker *events.Broker, queueSize int) *Handler {
	if queueSize <= 0 {
		queueSize = 64
	}
	return &Handler{
		store:  store,
		broker: broker,
		queue:  make(chan Action, queueSize),
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
	}
}

// Start begins the worker loop draining the action queue.
func (h *Handler) Start() {
	go h.run()
}

// Stop stops the worker loop after the current action finishes.
func (h *Handler) Stop() {
	close(h.stopCh)
	<-h.doneCh
}

// Submit enqueues an action. Event receivers block only long enough
// to enqueue; the status transition happens on the worker.
func (h *Handler) Submit(action Action) error {
	select {
	case <-h.stopCh:
		return fmt.Errorf("action handler stopped")
	default:
	}
	select {
	case h.queue <- action:
		return nil
	case <-h.stopCh:
		return fmt.Errorf("action handler stopped")
	}
}

func (h *Handler) run() {
	defer close(h.doneCh)
	for {
		select {
		case action := <-h.queue:
			if err := h.Apply(action); err != nil {
				logger := log.WithComponent("actions")
				logger.Error().Err(err).
					Str("item_id", action.ItemID).
					Str("kind", action.Kind).
					Msg("action failed")
			}
		case <-h.stopCh:
			return
		}
	}
}

// Apply executes one action synchronously. Exposed for callers (CLI,
// HTTP) that want the result immediately rather than queueing.
func (h *Handler) Apply(action Action) error {
	switch action.Kind {
	case types.ActionAcknowledge:
		return h.Acknowledge(action.ItemID)
	case types.ActionSnooze:
		return h.Snooze(action.ItemID)
	case types.ActionSkip:
		return h.Skip(action.ItemID)
	default:
		return fmt.Errorf("unknown action kind: %s", action.Kind)
	}
}

// Acknowledge transitions an item to done. Terminal and idempotent:
// repeated acknowledgement, or acknowledgement of a skipped item, is
// a no-op.
func (h *Handler) Acknowledge(itemID string) error {
	applied, err := h.store.ApplyStatus(itemID, types.StatusDone,
		types.StatusPending, types.StatusSnoozed)
	if err != nil {
		return fmt.Errorf("failed to acknowledge %s: %w", itemID, err)
	}
	if !applied {
		metrics.ActionsRejected.WithLabelValues(types.ActionAcknowledge).Inc()
		return nil
	}

	metrics.ActionsApplied.WithLabelValues(types.ActionAcknowledge).Inc()
	h.publish(events.EventItemAcknowledged, itemID, "item acknowledged")
	return nil
}

// Snooze re-arms an item for a future calibration pass: status moves
// to snoozed, the snooze count increments, and the reminder window
// shifts forward by SnoozeDelay. Clearing the item's dedupe state
// lets the re-armed item emit one more reminder.
func (h *Handler) Snooze(itemID string) error {
	applied, err := h.store.SnoozeItem(itemID, SnoozeDelay)
	if err != nil {
		return fmt.Errorf("failed to snooze %s: %w", itemID, err)
	}
	if !applied {
		metrics.ActionsRejected.WithLabelValues(types.ActionSnooze).Inc()
		return nil
	}

	if err := h.store.DeleteNotificationState(itemID); err != nil {
		return fmt.Errorf("failed to reset notification state for %s: %w", itemID, err)
	}

	metrics.ActionsApplied.WithLabelValues(types.ActionSnooze).Inc()
	h.publish(events.EventItemSnoozed, itemID, "item snoozed")
	return nil
}

// Skip transitions an item to skipped. Terminal; attempts against a
// done item are no-ops.
func (h *Handler) Skip(itemID string) error {
	applied, err := h.store.ApplyStatus(itemID, types.StatusSkipped,
		types.StatusPending, types.StatusSnoozed)
	if err != nil {
		return fmt.Errorf("failed to skip %s: %w", itemID, err)
	}
	if !applied {
		metrics.ActionsRejected.WithLabelValues(types.ActionSkip).Inc()
		return nil
	}

	metrics.ActionsApplied.WithLabelValues(types.ActionSkip).Inc()
	h.publish(events.EventItemSkipped, itemID, "item skipped")
	return nil
}

func (h *Handler) publish(eventType events.EventType, itemID, msg string) {
	if h.broker == nil {
		return
	}
	h.broker.Publish(&events.Event{
		Type:    eventType,
		Message: msg,
		Metadata: map[string]string{
			"item_id": itemID,
		},
	})
}
