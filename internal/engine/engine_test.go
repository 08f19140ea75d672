package engine

import (
	"testing"
	"time"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

func TestCreateSeriesWithoutRule(t *testing.T) {
	base := model.Event{ID: "base-1", Title: "library story hour", OccursAt: time.Now()}

	got := CreateSeries(base, nil)
	if len(got) != 1 {
		t.Fatalf("expected singleton, got %d", len(got))
	}
	if got[0].ID != "base-1" || got[0].SeriesID != nil {
		t.Fatalf("base should come back unchanged and untagged: %+v", got[0])
	}
}

func TestCreateSeriesClonesSiblings(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	capacity := 8
	base := model.Event{
		ID:       "base-2",
		Kind:     model.KindPlaydate,
		Title:    "soccer in the park",
		Location: "Dolores Park",
		OccursAt: start,
		AgeRange: "6-8 years",
		Capacity: &capacity,
	}
	rule := &model.RecurrenceRule{
		Unit:      model.UnitWeekly,
		Frequency: 1,
		SeriesEnd: time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC),
	}

	got := CreateSeries(base, rule)
	if len(got) != 4 {
		t.Fatalf("expected 4 occurrences, got %d", len(got))
	}
	if got[0].ID != "base-2" {
		t.Fatalf("base should keep its id, got %s", got[0].ID)
	}

	seen := map[string]bool{}
	for i, ev := range got {
		if ev.SeriesID == nil || *ev.SeriesID != *got[0].SeriesID {
			t.Fatalf("occurrence %d missing shared series id", i)
		}
		if seen[ev.ID] {
			t.Fatalf("duplicate id %s", ev.ID)
		}
		seen[ev.ID] = true
		if ev.Title != base.Title || ev.Location != base.Location ||
			ev.AgeRange != base.AgeRange || ev.Kind != base.Kind {
			t.Fatalf("occurrence %d does not share static fields: %+v", i, ev)
		}
		if ev.Capacity == nil || *ev.Capacity != capacity {
			t.Fatalf("occurrence %d lost capacity", i)
		}
		want := start.AddDate(0, 0, 7*i)
		if !ev.OccursAt.Equal(want) {
			t.Fatalf("occurrence %d at %v, want %v", i, ev.OccursAt, want)
		}
	}
}

func TestDiscoverDateWindowAndOrder(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candidates := []model.Event{
		{ID: "tomorrow", OccursAt: now.AddDate(0, 0, 1)},
		{ID: "today", OccursAt: now.Add(10 * time.Hour)},
		{ID: "far", OccursAt: now.AddDate(0, 0, 10)},
	}

	got := Discover(candidates, model.FilterSpec{Date: model.DateThisWeek}, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(got))
	}
	if got[0].ID != "today" || got[1].ID != "tomorrow" {
		t.Fatalf("wrong order: %s, %s", got[0].ID, got[1].ID)
	}
}

func TestDiscoverDistanceTieBreak(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	at := now.Add(24 * time.Hour)
	ref := &model.Coordinate{Latitude: 37.7749, Longitude: -122.4194}

	nearLat, nearLon := coordPtr(37.7800, -122.4200)
	farLat, farLon := coordPtr(37.9000, -122.4200)

	candidates := []model.Event{
		{ID: "far", OccursAt: at, Latitude: farLat, Longitude: farLon},
		{ID: "unknown", OccursAt: at},
		{ID: "near", OccursAt: at, Latitude: nearLat, Longitude: nearLon},
	}

	got := Discover(candidates, model.FilterSpec{ReferencePoint: ref}, now)
	if len(got) != 3 {
		t.Fatalf("expected 3 survivors, got %d", len(got))
	}
	if got[0].ID != "near" || got[1].ID != "far" || got[2].ID != "unknown" {
		t.Fatalf("wrong tie-break order: %s, %s, %s", got[0].ID, got[1].ID, got[2].ID)
	}
}

func TestDiscoverStableSort(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	at := now.Add(48 * time.Hour)

	// Identical time, both distances unknown: input order must hold.
	candidates := []model.Event{
		{ID: "first", OccursAt: at},
		{ID: "second", OccursAt: at},
		{ID: "third", OccursAt: at},
	}

	got := Discover(candidates, model.FilterSpec{}, now)
	for i, want := range []string{"first", "second", "third"} {
		if got[i].ID != want {
			t.Fatalf("position %d: got %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestDiscoverEmptyResult(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	candidates := []model.Event{
		{ID: "paid", OccursAt: now.Add(time.Hour), IsPaid: true},
	}

	got := Discover(candidates, model.FilterSpec{Price: model.PriceFree}, now)
	if len(got) != 0 {
		t.Fatalf("expected empty result, got %d", len(got))
	}
}
