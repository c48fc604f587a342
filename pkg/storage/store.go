package storage

import (
	"errors"
	"time"

	"github.com/cadencehq/cadence/pkg/types"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// Store defines the interface for plan state storage.
// Every mutation is atomic at the row level: a partially completed
// evaluation pass must never leave a torn record behind.
type Store interface {
	// Plan days
	GetPlanDay(date string) (*types.PlanDay, error)
	InsertPlanDay(day *types.PlanDay) error
	SetPlanDayMode(date string, mode types.DayMode) error

	// Plan items
	InsertItem(item *types.PlanItem) error
	GetItem(id string) (*types.PlanItem, error)
	ListItemsByDate(date string) ([]*types.PlanItem, error)
	UpdateItemWindow(id string, start, end time.Time) error
	DeleteItem(id string) error
	DeleteItemsBySource(date string, source types.ItemSource) error

	// ApplyStatus conditionally transitions an item to the given status.
	// The transition is applied only when the item's current status is
	// one of allowedFrom; otherwise it reports false with no error.
	ApplyStatus(id string, to types.ItemStatus, allowedFrom ...types.ItemStatus) (bool, error)

	// SnoozeItem atomically marks an item snoozed, increments its snooze
	// count, and shifts its window forward by delay. Applies only from
	// pending or snoozed; reports false otherwise.
	SnoozeItem(id string, delay time.Duration) (bool, error)

	// Notification dedupe state
	GetNotificationState(itemID string) (*types.NotificationState, error)
	UpsertNotificationState(itemID, date string, lastNotifiedAt time.Time) error
	DeleteNotificationState(itemID string) error

	// Utility
	Close() error
}
