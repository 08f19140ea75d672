package model

import "time"

// Event kinds. Playdates share the event table and the whole
// discovery/capacity pipeline; the kind only matters to the client.
const (
	KindEvent    = "event"
	KindPlaydate = "playdate"
)

// Closed set of age-range labels offered by the app. Free-text labels
// are tolerated but only ever compared by equality.
var AgeRanges = []string{
	"All Ages",
	"0-2 years",
	"3-5 years",
	"6-8 years",
	"9-12 years",
	"Teens",
}

// Event represents one concrete occurrence of an event or playdate.
// Occurrences spawned from a recurrence rule share a SeriesID; the
// series is a weak grouping, deleting one occurrence never touches
// its siblings.
type Event struct {
	ID          string     `db:"id"           json:"id"`
	Kind        string     `db:"kind"         json:"kind"`
	Title       string     `db:"title"        json:"title"`
	Description *string    `db:"description"  json:"description"`
	Location    string     `db:"location"     json:"location"`
	Latitude    *float64   `db:"latitude"     json:"latitude"`
	Longitude   *float64   `db:"longitude"    json:"longitude"`
	OccursAt    time.Time  `db:"occurs_at"    json:"occurs_at"`
	AgeRange    string     `db:"age_range"    json:"age_range"`
	IsPaid      bool       `db:"is_paid"      json:"is_paid"`
	PriceCents  int64      `db:"price_cents"  json:"price_cents"`
	Capacity    *int       `db:"capacity"     json:"capacity"`
	SeriesID    *string    `db:"series_id"    json:"series_id"`
	ImageURL    *string    `db:"image_url"    json:"image_url"`
	CreatedBy   int        `db:"created_by"   json:"created_by"`
	CreatedAt   time.Time  `db:"created_at"   json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"   json:"updated_at"`
}

// Coordinate returns the event's location as an engine coordinate,
// or nil when the event was created without one.
func (e *Event) Coordinate() *Coordinate {
	if e.Latitude == nil || e.Longitude == nil {
		return nil
	}
	return &Coordinate{Latitude: *e.Latitude, Longitude: *e.Longitude}
}

// Unlimited reports whether the event has no participant bound.
// NULL and -1 both mean unlimited.
func (e *Event) Unlimited() bool {
	return e.Capacity == nil || *e.Capacity < 0
}

// Coordinate is a WGS84 point.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Participant is one membership record for an event.
type Participant struct {
	EventID  string    `db:"event_id"  json:"event_id"`
	UserID   int       `db:"user_id"   json:"user_id"`
	JoinedAt time.Time `db:"joined_at" json:"joined_at"`
}
