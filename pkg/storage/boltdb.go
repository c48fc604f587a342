package storage

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/cadencehq/cadence/pkg/types"
	bolt "go.etcd.io/bbolt"
)

var (
	// Bucket names
	bucketPlanDays  = []byte("plan_days")
	bucketPlanItems = []byte("plan_items")
	bucketNotify    = []byte("notification_state")
)

// BoltStore implements Store interface using BoltDB
type BoltStore struct {
	db *bolt.DB
}

// NewBoltStore creates a new BoltDB-backed store
func NewBoltStore(dataDir string) (*BoltStore, error) {
	dbPath := filepath.Join(dataDir, "cadence.db")

	db, err := bolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Create buckets
	err = db.Update(func(tx *bolt.Tx) error {
		buckets := [][]byte{
			bucketPlanDays,
			bucketPlanItems,
			bucketNotify,
		}

		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})

	if err != nil {
		db.Close()
		return nil, err
	}

	return &BoltStore{db: db}, nil
}

// Close closes the database
func (s *BoltStore) Close() error {
	return s.db.Close()
}

// Plan day operations

func (s *BoltStore) GetPlanDay(date string) (*types.PlanDay, error) {
	var day types.PlanDay
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanDays)
		data := b.Get([]byte(date))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &day)
	})
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (s *BoltStore) InsertPlanDay(day *types.PlanDay) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanDays)
		if b.Get([]byte(day.Date)) != nil {
			// At most one PlanDay per date; second insert is a no-op
			return nil
		}
		data, err := json.Marshal(day)
		if err != nil {
			return err
		}
		return b.Put([]byte(day.Date), data)
	})
}

func (s *BoltStore) SetPlanDayMode(date string, mode types.DayMode) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanDays)
		data := b.Get([]byte(date))
		if data == nil {
			return ErrNotFound
		}
		var day types.PlanDay
		if err := json.Unmarshal(data, &day); err != nil {
			return err
		}
		if day.Mode == mode {
			return nil
		}
		day.Mode = mode
		updated, err := json.Marshal(&day)
		if err != nil {
			return err
		}
		return b.Put([]byte(date), updated)
	})
}

// Plan item operations

func (s *BoltStore) InsertItem(item *types.PlanItem) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		data, err := json.Marshal(item)
		if err != nil {
			return err
		}
		return b.Put([]byte(item.ID), data)
	})
}

func (s *BoltStore) GetItem(id string) (*types.PlanItem, error) {
	var item types.PlanItem
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &item)
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *BoltStore) ListItemsByDate(date string) ([]*types.PlanItem, error) {
	var items []*types.PlanItem
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		return b.ForEach(func(k, v []byte) error {
			var item types.PlanItem
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			if item.Date == date {
				items = append(items, &item)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Stable chronological order for callers
	sort.Slice(items, func(i, j int) bool {
		if !items[i].WindowStart.Equal(items[j].WindowStart) {
			return items[i].WindowStart.Before(items[j].WindowStart)
		}
		return items[i].ID < items[j].ID
	})
	return items, nil
}

func (s *BoltStore) UpdateItemWindow(id string, start, end time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var item types.PlanItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		item.WindowStart = start
		item.WindowEnd = end
		updated, err := json.Marshal(&item)
		if err != nil {
			return err
		}
		return b.Put([]byte(id), updated)
	})
}

func (s *BoltStore) DeleteItem(id string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		return b.Delete([]byte(id))
	})
}

func (s *BoltStore) DeleteItemsBySource(date string, source types.ItemSource) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			var item types.PlanItem
			if err := json.Unmarshal(v, &item); err != nil {
				return err
			}
			if item.Date == date && item.Source == source {
				key := make([]byte, len(k))
				copy(key, k)
				stale = append(stale, key)
			}
			return nil
		})
		if err != nil {
			return err
		}
		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyStatus conditionally transitions an item to the given status
// within a single transaction. A failed precondition is not an error.
func (s *BoltStore) ApplyStatus(id string, to types.ItemStatus, allowedFrom ...types.ItemStatus) (bool, error) {
	applied := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var item types.PlanItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		ok := false
		for _, from := range allowedFrom {
			if item.Status == from {
				ok = true
				break
			}
		}
		if !ok {
			return nil
		}
		item.Status = to
		updated, err := json.Marshal(&item)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(id), updated); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// SnoozeItem atomically snoozes an item: increments the snooze count
// and shifts the window forward by delay so a future calibration pass
// re-arms it.
func (s *BoltStore) SnoozeItem(id string, delay time.Duration) (bool, error) {
	applied := false
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketPlanItems)
		data := b.Get([]byte(id))
		if data == nil {
			return ErrNotFound
		}
		var item types.PlanItem
		if err := json.Unmarshal(data, &item); err != nil {
			return err
		}
		if item.Status != types.StatusPending && item.Status != types.StatusSnoozed {
			return nil
		}
		item.Status = types.StatusSnoozed
		item.SnoozeCount++
		item.WindowStart = item.WindowStart.Add(delay)
		item.WindowEnd = item.WindowEnd.Add(delay)
		updated, err := json.Marshal(&item)
		if err != nil {
			return err
		}
		if err := b.Put([]byte(id), updated); err != nil {
			return err
		}
		applied = true
		return nil
	})
	return applied, err
}

// Notification state operations

func (s *BoltStore) GetNotificationState(itemID string) (*types.NotificationState, error) {
	var state types.NotificationState
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotify)
		data := b.Get([]byte(itemID))
		if data == nil {
			return ErrNotFound
		}
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		return nil, err
	}
	return &state, nil
}

func (s *BoltStore) UpsertNotificationState(itemID, date string, lastNotifiedAt time.Time) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotify)
		state := types.NotificationState{
			ItemID:         itemID,
			Date:           date,
			LastNotifiedAt: &lastNotifiedAt,
		}
		data, err := json.Marshal(&state)
		if err != nil {
			return err
		}
		return b.Put([]byte(itemID), data)
	})
}

func (s *BoltStore) DeleteNotificationState(itemID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketNotify)
		return b.Delete([]byte(itemID))
	})
}
