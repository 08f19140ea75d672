package engine

import (
	"sync"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

// ParticipationStore is the durable side of membership records. The
// tracker decides admission; the store is the source of truth across
// restarts.
type ParticipationStore interface {
	AddParticipant(eventID string, userID int) error
	RemoveParticipant(eventID string, userID int) error
	ListParticipants(eventID string) ([]model.Participant, error)
}

// CapacityTracker enforces the capacity invariant per event:
// 0 <= occupancy <= capacity whenever a capacity is set. Join, Leave
// and SetCapacity for one event are mutually exclusive; different
// events never contend with each other.
//
// The tracker holds the live capacity for every entry it has touched.
// Admission always checks that tracker-held value, never the caller's
// event snapshot, so a join racing a capacity reduction cannot be
// admitted against a stale bound.
type CapacityTracker struct {
	store ParticipationStore

	mu      sync.Mutex
	entries map[string]*occupancy
}

type occupancy struct {
	mu       sync.Mutex
	members  map[int]struct{}
	capacity int // -1 = unlimited
	loaded   bool
}

// NewCapacityTracker builds a tracker backed by store. A nil store is
// allowed and keeps membership purely in memory.
func NewCapacityTracker(store ParticipationStore) *CapacityTracker {
	return &CapacityTracker{
		store:   store,
		entries: make(map[string]*occupancy),
	}
}

func (t *CapacityTracker) entry(eventID string) *occupancy {
	t.mu.Lock()
	defer t.mu.Unlock()
	o, ok := t.entries[eventID]
	if !ok {
		o = &occupancy{members: make(map[int]struct{}), capacity: -1}
		t.entries[eventID] = o
	}
	return o
}

func capacityOf(ev *model.Event) int {
	if ev.Unlimited() {
		return -1
	}
	return *ev.Capacity
}

// load hydrates membership from the store on first touch and seeds
// the tracked capacity from the event row. Later SetCapacity calls
// supersede the seed. Caller holds o.mu.
func (o *occupancy) load(store ParticipationStore, ev *model.Event) error {
	if o.loaded {
		return nil
	}
	if store != nil {
		rows, err := store.ListParticipants(ev.ID)
		if err != nil {
			return err
		}
		for _, p := range rows {
			o.members[p.UserID] = struct{}{}
		}
	}
	o.capacity = capacityOf(ev)
	o.loaded = true
	return nil
}

// Join records userID as a participant of ev. Fails with
// CapacityAlreadyJoined on a duplicate and CapacityFull when the
// event is at its bound. The durable write happens inside the
// per-event critical section, after the in-memory admit.
func (t *CapacityTracker) Join(ev *model.Event, userID int) error {
	o := t.entry(ev.ID)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(t.store, ev); err != nil {
		return err
	}
	if _, ok := o.members[userID]; ok {
		return &CapacityError{Kind: CapacityAlreadyJoined, EventID: ev.ID, UserID: userID}
	}
	if o.capacity >= 0 && len(o.members) >= o.capacity {
		return &CapacityError{
			Kind:      CapacityFull,
			EventID:   ev.ID,
			UserID:    userID,
			Capacity:  o.capacity,
			Occupancy: len(o.members),
		}
	}
	if t.store != nil {
		if err := t.store.AddParticipant(ev.ID, userID); err != nil {
			return err
		}
	}
	o.members[userID] = struct{}{}
	return nil
}

// Leave removes userID from ev. Fails with CapacityNotAMember when
// there is nothing to remove.
func (t *CapacityTracker) Leave(ev *model.Event, userID int) error {
	o := t.entry(ev.ID)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(t.store, ev); err != nil {
		return err
	}
	if _, ok := o.members[userID]; !ok {
		return &CapacityError{Kind: CapacityNotAMember, EventID: ev.ID, UserID: userID}
	}
	if t.store != nil {
		if err := t.store.RemoveParticipant(ev.ID, userID); err != nil {
			return err
		}
	}
	delete(o.members, userID)
	return nil
}

// SetCapacity changes the bound for ev. newCapacity < 0 means
// unlimited and always passes; otherwise the change is rejected with
// CapacityBelowOccupancy when it would strand current members. The
// optional persist callback (the event-row update) runs inside the
// per-event critical section, before the tracked value changes, so no
// join can be admitted between the durable write and the new bound
// taking effect. A nil persist skips the durable write.
func (t *CapacityTracker) SetCapacity(ev *model.Event, newCapacity int, persist func() error) error {
	o := t.entry(ev.ID)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(t.store, ev); err != nil {
		return err
	}
	if newCapacity >= 0 && newCapacity < len(o.members) {
		return &CapacityError{
			Kind:      CapacityBelowOccupancy,
			EventID:   ev.ID,
			Capacity:  newCapacity,
			Occupancy: len(o.members),
		}
	}
	if persist != nil {
		if err := persist(); err != nil {
			return err
		}
	}
	if newCapacity < 0 {
		newCapacity = -1
	}
	o.capacity = newCapacity
	return nil
}

// Occupancy returns the current participant count for ev.
func (t *CapacityTracker) Occupancy(ev *model.Event) (int, error) {
	o := t.entry(ev.ID)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(t.store, ev); err != nil {
		return 0, err
	}
	return len(o.members), nil
}

// SpotsRemaining derives capacity minus occupancy from the tracked
// state. The second return is false for unlimited events. The value
// is always recomputed, never stored, so it cannot drift from the
// membership records.
func (t *CapacityTracker) SpotsRemaining(ev *model.Event) (int, bool, error) {
	o := t.entry(ev.ID)
	o.mu.Lock()
	defer o.mu.Unlock()

	if err := o.load(t.store, ev); err != nil {
		return 0, false, err
	}
	if o.capacity < 0 {
		return 0, false, nil
	}
	return o.capacity - len(o.members), true, nil
}

// Forget drops the in-memory entry for a deleted event.
func (t *CapacityTracker) Forget(eventID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, eventID)
}
