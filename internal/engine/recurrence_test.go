package engine

import (
	"testing"
	"time"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

func TestExpandWeekly(t *testing.T) {
	start := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	rule := model.RecurrenceRule{
		Unit:      model.UnitWeekly,
		Frequency: 1,
		SeriesEnd: time.Date(2024, 1, 22, 10, 0, 0, 0, time.UTC),
	}

	got := Expand(start, rule)
	if len(got) != 4 {
		t.Fatalf("expected 4 occurrences, got %d: %v", len(got), got)
	}
	for i, day := range []int{1, 8, 15, 22} {
		want := time.Date(2024, 1, day, 10, 0, 0, 0, time.UTC)
		if !got[i].Equal(want) {
			t.Fatalf("occurrence %d: expected %v, got %v", i, want, got[i])
		}
	}
}

func TestExpandCapsAtTen(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	rule := model.RecurrenceRule{
		Unit:      model.UnitDaily,
		Frequency: 1,
		SeriesEnd: start.AddDate(50, 0, 0),
	}

	got := Expand(start, rule)
	if len(got) != MaxOccurrences {
		t.Fatalf("expected cap of %d, got %d", MaxOccurrences, len(got))
	}
}

func TestExpandMonotonicAndBounded(t *testing.T) {
	start := time.Date(2024, 3, 5, 18, 30, 0, 0, time.UTC)
	rule := model.RecurrenceRule{
		Unit:      model.UnitMonthly,
		Frequency: 2,
		SeriesEnd: start.AddDate(1, 0, 0),
	}

	got := Expand(start, rule)
	for i := 1; i < len(got); i++ {
		if !got[i].After(got[i-1]) {
			t.Fatalf("occurrences not strictly increasing at %d: %v", i, got)
		}
	}
	for _, at := range got {
		if at.After(rule.SeriesEnd) {
			t.Fatalf("occurrence %v past series end %v", at, rule.SeriesEnd)
		}
	}
	// Monthly steps are a fixed 60 days here (frequency 2), not two
	// calendar months.
	if want := start.Add(2 * 30 * 24 * time.Hour); !got[1].Equal(want) {
		t.Fatalf("expected fixed 60-day step to %v, got %v", want, got[1])
	}
}

func TestExpandDeterministic(t *testing.T) {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	rule := model.RecurrenceRule{
		Unit:      model.UnitDaily,
		Frequency: 3,
		SeriesEnd: start.AddDate(0, 1, 0),
	}

	first := Expand(start, rule)
	second := Expand(start, rule)
	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Equal(second[i]) {
			t.Fatalf("occurrence %d differs: %v vs %v", i, first[i], second[i])
		}
	}
}

func TestExpandDegenerateRule(t *testing.T) {
	start := time.Date(2024, 5, 10, 8, 0, 0, 0, time.UTC)
	rule := model.RecurrenceRule{
		Unit:      model.UnitWeekly,
		Frequency: 1,
		SeriesEnd: start.AddDate(0, 0, -7),
	}

	got := Expand(start, rule)
	if len(got) != 1 || !got[0].Equal(start) {
		t.Fatalf("expected only the original occurrence, got %v", got)
	}
}
