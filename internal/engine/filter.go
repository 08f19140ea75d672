package engine

import (
	"time"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

// MatchesFilter reports whether ev passes every active facet of spec.
// Facets are AND-combined; an inactive ("any") facet always passes.
func MatchesFilter(ev *model.Event, spec model.FilterSpec, now time.Time) bool {
	return matchPrice(ev, spec.Price) &&
		matchAge(ev, spec.AgeRange) &&
		matchDate(ev, spec.Date, now) &&
		matchDistance(ev, spec)
}

func matchPrice(ev *model.Event, facet model.PriceFacet) bool {
	switch facet {
	case model.PriceFree:
		return !ev.IsPaid
	case model.PricePaid:
		return ev.IsPaid
	default:
		return true
	}
}

// matchAge is exact categorical equality. Overlapping-range matching
// is intentionally not attempted.
func matchAge(ev *model.Event, facet string) bool {
	if facet == "" || facet == model.AgeAny {
		return true
	}
	return ev.AgeRange == facet
}

// DateWindow resolves a date facet into the half-open interval
// [from, to) relative to now. ok is false for the "any" facet.
func DateWindow(facet model.DateFacet, now time.Time) (from, to time.Time, ok bool) {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	switch facet {
	case model.DateToday:
		return day, day.AddDate(0, 0, 1), true
	case model.DateThisWeek:
		return day, day.AddDate(0, 0, 7), true
	case model.DateThisMonth:
		return day, day.AddDate(0, 1, 0), true
	default:
		return time.Time{}, time.Time{}, false
	}
}

func matchDate(ev *model.Event, facet model.DateFacet, now time.Time) bool {
	from, to, ok := DateWindow(facet, now)
	if !ok {
		return true
	}
	return !ev.OccursAt.Before(from) && ev.OccursAt.Before(to)
}

// matchDistance fails closed: with an active radius facet, a missing
// event coordinate or missing reference point excludes the candidate.
func matchDistance(ev *model.Event, spec model.FilterSpec) bool {
	if spec.Distance == model.DistanceAny {
		return true
	}
	coord := ev.Coordinate()
	if coord == nil || spec.ReferencePoint == nil {
		return false
	}
	return DistanceMiles(*coord, *spec.ReferencePoint) <= float64(spec.Distance)
}
