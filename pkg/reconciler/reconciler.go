package reconciler

import (
	"fmt"
	"time"

	"github.com/cadencehq/cadence/pkg/events"
	"github.com/cadencehq/cadence/pkg/log"
	"github.com/cadencehq/cadence/pkg/metrics"
	"github.com/cadencehq/cadence/pkg/routine"
	"github.com/cadencehq/cadence/pkg/storage"
	"github.com/cadencehq/cadence/pkg/types"
	"github.com/google/uuid"
)

// AnchorProvider supplies the day's wake estimate and bed target.
// Anchors come from configuration (or, eventually, from learned sleep
// data); a provider that cannot produce anchors fails the whole
// regeneration pass.
type AnchorProvider interface {
	Anchors(date string) (wake, bed time.Time, err error)
}

// Reconciler brings stored deterministic items in line with the
// freshly generated routine while preserving manual items and, where
// possible, item status.
type Reconciler struct {
	store   storage.Store
	anchors AnchorProvider
	broker  *events.Broker
}

// Mutations summarizes what one reconciliation pass changed.
type Mutations struct {
	Inserted       int
	WindowsUpdated int
	Deleted        int
}

// Total returns the number of mutations applied.
func (m Mutations) Total() int {
	return m.Inserted + m.WindowsUpdated + m.Deleted
}

// NewReconciler creates a new reconciler
func NewReconciler(store storage.Store, anchors AnchorProvider, broker *events.Broker) *Reconciler {
	return &Reconciler{
		store:   store,
		anchors: anchors,
		broker:  broker,
	}
}

// Reconcile runs one regeneration pass for the given date. It is
// idempotent: a second immediate run with identical anchors applies
// zero further mutations.
func (r *Reconciler) Reconcile(date string) (Mutations, error) {
	timer := metrics.NewTimer()
	defer func() {
		timer.ObserveDuration(metrics.RegenerationDuration)
		metrics.RegenerationCyclesTotal.Inc()
	}()

	logger := log.WithComponent("reconciler")

	wake, bed, err := r.anchors.Anchors(date)
	if err != nil {
		return Mutations{}, fmt.Errorf("failed to resolve anchors for %s: %w", date, err)
	}

	generated, err := routine.Generate(date, wake, bed)
	if err != nil {
		return Mutations{}, fmt.Errorf("failed to generate routine for %s: %w", date, err)
	}

	// PlanDay is created before any item mutation
	if err := r.ensurePlanDay(date); err != nil {
		return Mutations{}, err
	}

	existing, err := r.store.ListItemsByDate(date)
	if err != nil {
		return Mutations{}, fmt.Errorf("failed to list items for %s: %w", date, err)
	}

	// Index stored deterministic rows by occurrence key. Manual items
	// are never inspected here.
	stored := make(map[string]*types.PlanItem)
	for _, item := range existing {
		if item.Source == types.SourceDeterministic {
			stored[item.Key()] = item
		}
	}

	var muts Mutations
	seen := make(map[string]bool, len(generated))

	for _, occ := range generated {
		seen[occ.Key()] = true

		prior, ok := stored[occ.Key()]
		if !ok {
			item := &types.PlanItem{
				ID:          uuid.New().String(),
				Date:        date,
				Title:       occ.Title,
				Routine:     occ.Routine,
				Slot:        occ.Slot,
				Source:      types.SourceDeterministic,
				Window:      occ.Window,
				Status:      types.StatusPending,
				IsCore:      occ.IsCore,
				WindowStart: occ.WindowStart,
				WindowEnd:   occ.WindowEnd,
				CreatedAt:   time.Now(),
			}
			if err := r.store.InsertItem(item); err != nil {
				return muts, fmt.Errorf("failed to insert %s: %w", occ.Key(), err)
			}
			muts.Inserted++
			metrics.MutationsTotal.WithLabelValues("insert").Inc()
			continue
		}

		unchanged := prior.WindowStart.Equal(occ.WindowStart) && prior.WindowEnd.Equal(occ.WindowEnd)
		if unchanged {
			// Preserved as-is. Regeneration must not reset an item the
			// user already acted on, and an untouched pending row needs
			// no write at all.
			continue
		}

		if prior.Status == types.StatusPending {
			if err := r.store.UpdateItemWindow(prior.ID, occ.WindowStart, occ.WindowEnd); err != nil {
				return muts, fmt.Errorf("failed to update window for %s: %w", occ.Key(), err)
			}
			muts.WindowsUpdated++
			metrics.MutationsTotal.WithLabelValues("window_update").Inc()
			continue
		}

		// Window shifted but the user already acted: keep their status
		// and the old window rather than silently resetting the row.
		logger.Debug().
			Str("date", date).
			Str("key", occ.Key()).
			Str("status", string(prior.Status)).
			Msg("anchors shifted after user action, keeping acted row")
	}

	// Any stored deterministic row absent from the generated set is
	// stale: the day's deterministic routines are exactly the
	// generator's output.
	for key, item := range stored {
		if seen[key] {
			continue
		}
		if err := r.store.DeleteItem(item.ID); err != nil {
			return muts, fmt.Errorf("failed to delete stale item %s: %w", key, err)
		}
		muts.Deleted++
		metrics.MutationsTotal.WithLabelValues("delete").Inc()
	}

	if muts.Total() > 0 && r.broker != nil {
		r.broker.Publish(&events.Event{
			Type:    events.EventPlanRegenerated,
			Message: fmt.Sprintf("plan regenerated for %s", date),
			Metadata: map[string]string{
				"date":     date,
				"inserted": fmt.Sprintf("%d", muts.Inserted),
				"updated":  fmt.Sprintf("%d", muts.WindowsUpdated),
				"deleted":  fmt.Sprintf("%d", muts.Deleted),
			},
		})
	}

	logger.Info().
		Str("date", date).
		Int("inserted", muts.Inserted).
		Int("windows_updated", muts.WindowsUpdated).
		Int("deleted", muts.Deleted).
		Msg("reconciliation complete")

	return muts, nil
}

// ensurePlanDay creates the date's PlanDay with mode normal if absent.
func (r *Reconciler) ensurePlanDay(date string) error {
	_, err := r.store.GetPlanDay(date)
	if err == nil {
		return nil
	}
	if err != storage.ErrNotFound {
		return fmt.Errorf("failed to get plan day %s: %w", date, err)
	}
	return r.store.InsertPlanDay(&types.PlanDay{
		Date:      date,
		Mode:      types.ModeNormal,
		CreatedAt: time.Now(),
	})
}
