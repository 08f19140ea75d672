package engine

import (
	"time"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

// MaxOccurrences caps recurrence expansion, counting the original
// occurrence. A rule with a far-future SeriesEnd stops here instead
// of flooding the store.
const MaxOccurrences = 10

// Expand turns a recurrence rule into concrete occurrence times.
// The result always starts with start itself, steps by the rule's
// fixed interval, and includes a candidate only while it is not past
// SeriesEnd. A degenerate rule (SeriesEnd before start) yields just
// the original occurrence. Expansion is pure: same inputs, same
// output.
func Expand(start time.Time, rule model.RecurrenceRule) []time.Time {
	out := make([]time.Time, 0, MaxOccurrences)
	out = append(out, start)

	step := rule.Unit.Interval(rule.Frequency)
	for next := start.Add(step); len(out) < MaxOccurrences && !next.After(rule.SeriesEnd); next = next.Add(step) {
		out = append(out, next)
	}
	return out
}
