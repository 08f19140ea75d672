package engine

import (
	"errors"
	"sync"
	"testing"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

var errPersist = errors.New("persist failed")

func capped(id string, capacity int) *model.Event {
	return &model.Event{ID: id, Capacity: &capacity}
}

func TestJoinUntilFull(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	ev := capped("ev-1", 2)

	if err := tracker.Join(ev, 1); err != nil {
		t.Fatalf("first join failed: %v", err)
	}
	if left, _, _ := tracker.SpotsRemaining(ev); left != 1 {
		t.Fatalf("expected 1 spot remaining, got %d", left)
	}
	if err := tracker.Join(ev, 2); err != nil {
		t.Fatalf("second join failed: %v", err)
	}
	if left, _, _ := tracker.SpotsRemaining(ev); left != 0 {
		t.Fatalf("expected 0 spots remaining, got %d", left)
	}

	err := tracker.Join(ev, 3)
	ce, ok := AsCapacityError(err)
	if !ok || ce.Kind != CapacityFull {
		t.Fatalf("expected full error, got %v", err)
	}
	if ce.EventID != "ev-1" || ce.UserID != 3 {
		t.Fatalf("error missing context: %+v", ce)
	}
}

func TestDoubleJoinAndLeaveWithoutJoin(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	ev := capped("ev-2", 5)

	if err := tracker.Join(ev, 7); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if ce, ok := AsCapacityError(tracker.Join(ev, 7)); !ok || ce.Kind != CapacityAlreadyJoined {
		t.Fatalf("expected already-joined error")
	}
	if ce, ok := AsCapacityError(tracker.Leave(ev, 8)); !ok || ce.Kind != CapacityNotAMember {
		t.Fatalf("expected not-a-member error")
	}
	if err := tracker.Leave(ev, 7); err != nil {
		t.Fatalf("leave failed: %v", err)
	}
}

func TestSetCapacityBelowOccupancy(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	ev := capped("ev-3", 10)
	for user := 1; user <= 4; user++ {
		if err := tracker.Join(ev, user); err != nil {
			t.Fatalf("join %d failed: %v", user, err)
		}
	}

	if ce, ok := AsCapacityError(tracker.SetCapacity(ev, 3, nil)); !ok || ce.Kind != CapacityBelowOccupancy {
		t.Fatalf("expected below-occupancy error")
	}
	if err := tracker.SetCapacity(ev, 4, nil); err != nil {
		t.Fatalf("capacity equal to occupancy should pass: %v", err)
	}
	if err := tracker.SetCapacity(ev, -1, nil); err != nil {
		t.Fatalf("unlimited should always pass: %v", err)
	}
	if _, bounded, _ := tracker.SpotsRemaining(ev); bounded {
		t.Fatal("lifted bound still reported by SpotsRemaining")
	}
}

// A join carrying an event snapshot read before a capacity reduction
// must be checked against the reduced bound, not the snapshot.
func TestJoinWithStaleSnapshotAfterReduction(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	before := capped("ev-8", 5)
	for user := 1; user <= 4; user++ {
		if err := tracker.Join(before, user); err != nil {
			t.Fatalf("join %d failed: %v", user, err)
		}
	}

	persisted := false
	if err := tracker.SetCapacity(before, 4, func() error {
		persisted = true
		return nil
	}); err != nil {
		t.Fatalf("reduction to occupancy failed: %v", err)
	}
	if !persisted {
		t.Fatal("persist callback not invoked")
	}

	// snapshot still claims capacity 5
	err := tracker.Join(before, 9)
	ce, ok := AsCapacityError(err)
	if !ok || ce.Kind != CapacityFull {
		t.Fatalf("stale snapshot admitted past reduced bound: %v", err)
	}
	if ce.Capacity != 4 {
		t.Fatalf("full error reports capacity %d, want 4", ce.Capacity)
	}
	if n, _ := tracker.Occupancy(before); n != 4 {
		t.Fatalf("occupancy %d exceeds reduced capacity", n)
	}
}

// When the durable write fails the bound must not change.
func TestSetCapacityPersistFailureKeepsOldBound(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	ev := capped("ev-9", 2)
	if err := tracker.Join(ev, 1); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	if err := tracker.SetCapacity(ev, 1, func() error { return errPersist }); err != errPersist {
		t.Fatalf("expected persist error, got %v", err)
	}
	if left, bounded, _ := tracker.SpotsRemaining(ev); !bounded || left != 1 {
		t.Fatalf("bound changed despite failed persist: left=%d bounded=%v", left, bounded)
	}
}

func TestUnlimitedEventNeverFull(t *testing.T) {
	tracker := NewCapacityTracker(nil)
	ev := &model.Event{ID: "ev-4"}

	for user := 0; user < 100; user++ {
		if err := tracker.Join(ev, user); err != nil {
			t.Fatalf("join %d failed: %v", user, err)
		}
	}
	if _, bounded, _ := tracker.SpotsRemaining(ev); bounded {
		t.Fatal("unlimited event reported a bound")
	}
}

// Many goroutines race to join one bounded event; exactly capacity
// joins may win and occupancy never exceeds the bound.
func TestConcurrentJoinsRespectCapacity(t *testing.T) {
	const capacity = 10
	const callers = 100

	tracker := NewCapacityTracker(nil)
	ev := capped("ev-5", capacity)

	var wg sync.WaitGroup
	var mu sync.Mutex
	admitted := 0

	for user := 0; user < callers; user++ {
		wg.Add(1)
		go func(user int) {
			defer wg.Done()
			if err := tracker.Join(ev, user); err == nil {
				mu.Lock()
				admitted++
				mu.Unlock()
			}
		}(user)
	}
	wg.Wait()

	if admitted != capacity {
		t.Fatalf("expected %d admitted, got %d", capacity, admitted)
	}
	n, err := tracker.Occupancy(ev)
	if err != nil {
		t.Fatalf("occupancy: %v", err)
	}
	if n != capacity {
		t.Fatalf("occupancy %d != capacity %d", n, capacity)
	}
}

// Interleaved joins and leaves from concurrent callers: occupancy
// must stay within [0, capacity] at every observation point.
func TestConcurrentJoinLeaveInvariant(t *testing.T) {
	const capacity = 5

	tracker := NewCapacityTracker(nil)
	ev := capped("ev-6", capacity)

	var wg sync.WaitGroup
	for user := 0; user < 40; user++ {
		wg.Add(1)
		go func(user int) {
			defer wg.Done()
			for i := 0; i < 25; i++ {
				if err := tracker.Join(ev, user); err == nil {
					tracker.Leave(ev, user)
				}
				n, err := tracker.Occupancy(ev)
				if err != nil {
					t.Errorf("occupancy: %v", err)
					return
				}
				if n < 0 || n > capacity {
					t.Errorf("occupancy %d out of [0,%d]", n, capacity)
					return
				}
			}
		}(user)
	}
	wg.Wait()
}

type memParticipation struct {
	mu   sync.Mutex
	rows map[string][]model.Participant
}

func (m *memParticipation) AddParticipant(eventID string, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[eventID] = append(m.rows[eventID], model.Participant{EventID: eventID, UserID: userID})
	return nil
}

func (m *memParticipation) RemoveParticipant(eventID string, userID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.rows[eventID][:0]
	for _, p := range m.rows[eventID] {
		if p.UserID != userID {
			kept = append(kept, p)
		}
	}
	m.rows[eventID] = kept
	return nil
}

func (m *memParticipation) ListParticipants(eventID string) ([]model.Participant, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Participant(nil), m.rows[eventID]...), nil
}

func TestTrackerHydratesFromStore(t *testing.T) {
	store := &memParticipation{rows: map[string][]model.Participant{
		"ev-7": {{EventID: "ev-7", UserID: 1}, {EventID: "ev-7", UserID: 2}},
	}}
	tracker := NewCapacityTracker(store)
	ev := capped("ev-7", 2)

	if ce, ok := AsCapacityError(tracker.Join(ev, 3)); !ok || ce.Kind != CapacityFull {
		t.Fatalf("expected full after hydration, got join success")
	}
	if err := tracker.Leave(ev, 1); err != nil {
		t.Fatalf("leave of hydrated member failed: %v", err)
	}
	rows, _ := store.ListParticipants("ev-7")
	if len(rows) != 1 {
		t.Fatalf("store not updated on leave: %v", rows)
	}
}
