package jobs

import (
	"testing"
	"time"

	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/model"
)

type stubPurgeStore struct {
	deleted []string
	cutoffs []time.Time
}

func (s *stubPurgeStore) DeleteEventsBefore(cutoff time.Time) ([]string, error) {
	s.cutoffs = append(s.cutoffs, cutoff)
	return s.deleted, nil
}

func TestPurgeForgetsTrackerEntries(t *testing.T) {
	capacity := 1
	stale := &model.Event{ID: "ev-old", Capacity: &capacity}
	kept := &model.Event{ID: "ev-live", Capacity: &capacity}

	tracker := engine.NewCapacityTracker(nil)
	if err := tracker.Join(stale, 1); err != nil {
		t.Fatalf("seed join failed: %v", err)
	}
	if err := tracker.Join(kept, 2); err != nil {
		t.Fatalf("seed join failed: %v", err)
	}

	store := &stubPurgeStore{deleted: []string{"ev-old"}}
	deleted := purgeStaleEvents(store, tracker)
	if len(deleted) != 1 || deleted[0] != "ev-old" {
		t.Fatalf("unexpected deleted ids: %v", deleted)
	}

	// with no backing store the entry rehydrates empty once forgotten
	if n, _ := tracker.Occupancy(stale); n != 0 {
		t.Fatalf("purged event still tracked with occupancy %d", n)
	}
	if n, _ := tracker.Occupancy(kept); n != 1 {
		t.Fatalf("live event lost its entry, occupancy %d", n)
	}

	if len(store.cutoffs) != 1 || time.Since(store.cutoffs[0]) < retainPast {
		t.Fatalf("cutoff not within retention window: %v", store.cutoffs)
	}
}

func TestPurgeNothingToDo(t *testing.T) {
	tracker := engine.NewCapacityTracker(nil)
	if deleted := purgeStaleEvents(&stubPurgeStore{}, tracker); deleted != nil {
		t.Fatalf("expected no deletions, got %v", deleted)
	}
}
