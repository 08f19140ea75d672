package engine

import (
	"errors"
	"fmt"
)

// ErrInvalidCoordinate flags out-of-range latitude/longitude. Callers
// should reject the input instead of letting a bad point produce a
// plausible-looking distance.
var ErrInvalidCoordinate = errors.New("invalid coordinate")

// CapacityErrorKind identifies which capacity invariant was violated.
type CapacityErrorKind string

const (
	CapacityFull           CapacityErrorKind = "full"
	CapacityAlreadyJoined  CapacityErrorKind = "already_joined"
	CapacityNotAMember     CapacityErrorKind = "not_a_member"
	CapacityBelowOccupancy CapacityErrorKind = "below_current_occupancy"
)

// CapacityError is returned by CapacityTracker mutations. It carries
// enough context (event, participant, counts) for the API layer to
// render a precise message.
type CapacityError struct {
	Kind      CapacityErrorKind
	EventID   string
	UserID    int
	Capacity  int
	Occupancy int
}

func (e *CapacityError) Error() string {
	switch e.Kind {
	case CapacityFull:
		return fmt.Sprintf("event %s is full (%d/%d)", e.EventID, e.Occupancy, e.Capacity)
	case CapacityAlreadyJoined:
		return fmt.Sprintf("user %d already joined event %s", e.UserID, e.EventID)
	case CapacityNotAMember:
		return fmt.Sprintf("user %d is not a member of event %s", e.UserID, e.EventID)
	case CapacityBelowOccupancy:
		return fmt.Sprintf("capacity %d below current occupancy %d for event %s", e.Capacity, e.Occupancy, e.EventID)
	default:
		return fmt.Sprintf("capacity error on event %s", e.EventID)
	}
}

// AsCapacityError unwraps err into a *CapacityError if it is one.
func AsCapacityError(err error) (*CapacityError, bool) {
	var ce *CapacityError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
