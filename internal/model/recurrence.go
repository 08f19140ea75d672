package model

import "time"

// RecurrenceUnit is the step unit of a recurrence rule.
type RecurrenceUnit string

const (
	UnitDaily  RecurrenceUnit = "daily"
	UnitWeekly RecurrenceUnit = "weekly"
	// Monthly is a fixed 30-day step, not calendar-month arithmetic.
	// Product decision carried over from the mobile client.
	UnitMonthly RecurrenceUnit = "monthly"
)

// Interval returns the fixed step length for the unit, scaled by
// frequency. Unknown units fall back to daily.
func (u RecurrenceUnit) Interval(frequency int) time.Duration {
	if frequency < 1 {
		frequency = 1
	}
	day := 24 * time.Hour
	switch u {
	case UnitWeekly:
		return time.Duration(frequency) * 7 * day
	case UnitMonthly:
		return time.Duration(frequency) * 30 * day
	default:
		return time.Duration(frequency) * day
	}
}

// RecurrenceRule describes how an event repeats: every Frequency
// Units, up to and including SeriesEnd.
type RecurrenceRule struct {
	Unit      RecurrenceUnit `json:"unit"`
	Frequency int            `json:"frequency"`
	SeriesEnd time.Time      `json:"series_end"`
}
