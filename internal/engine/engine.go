// Package engine is the discovery and scheduling core: recurrence
// expansion, faceted filtering with distance, and the per-event
// capacity invariant. It is pure in-memory logic; persistence and
// clocks are supplied by callers.
package engine

import (
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

// CreateSeries materializes an event series from a base occurrence
// and an optional recurrence rule. With no rule, the base comes back
// alone and untagged. With a rule, every timestamp from Expand gets
// an occurrence: the base keeps its id, clones get fresh ids, and all
// siblings share a new series id plus every other field of base.
func CreateSeries(base model.Event, rule *model.RecurrenceRule) []model.Event {
	if rule == nil {
		return []model.Event{base}
	}

	times := Expand(base.OccursAt, *rule)
	seriesID := uuid.NewString()

	out := make([]model.Event, 0, len(times))
	for i, at := range times {
		ev := base
		ev.SeriesID = &seriesID
		ev.OccursAt = at
		if i > 0 {
			ev.ID = uuid.NewString()
		}
		out = append(out, ev)
	}
	return out
}

// Discover filters candidates against spec and sorts survivors by
// soonest-first, ties broken by distance from the reference point.
// Candidates without a usable distance sort after those with one.
// The sort is stable, so equal candidates keep their input order.
// Discover never fails; no survivors is an empty slice.
func Discover(candidates []model.Event, spec model.FilterSpec, now time.Time) []model.Event {
	type ranked struct {
		ev       model.Event
		distance float64
	}

	out := make([]ranked, 0, len(candidates))
	for _, ev := range candidates {
		if !MatchesFilter(&ev, spec, now) {
			continue
		}
		d := math.Inf(1)
		if coord := ev.Coordinate(); coord != nil && spec.ReferencePoint != nil {
			d = DistanceMiles(*coord, *spec.ReferencePoint)
		}
		out = append(out, ranked{ev: ev, distance: d})
	}

	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].ev.OccursAt.Equal(out[j].ev.OccursAt) {
			return out[i].ev.OccursAt.Before(out[j].ev.OccursAt)
		}
		return out[i].distance < out[j].distance
	})

	result := make([]model.Event, len(out))
	for i, r := range out {
		result[i] = r.ev
	}
	return result
}
