package packets

import "time"

type SignupRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     *string `json:"name"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type UpdateProfileRequest struct {
	Email *string `json:"email"`
	Name  *string `json:"name"`
}

// RecurrencePayload is the optional recurrence block of a creation
// request. SeriesEnd bounds the series; expansion is additionally
// capped server-side.
type RecurrencePayload struct {
	Unit      string    `json:"unit" binding:"required"`
	Frequency int       `json:"frequency" binding:"required,min=1"`
	SeriesEnd time.Time `json:"series_end" binding:"required"`
}

type CreateEventRequest struct {
	Kind        string             `json:"kind"`
	Title       string             `json:"title" binding:"required"`
	Description *string            `json:"description"`
	Location    string             `json:"location"`
	Latitude    *float64           `json:"latitude"`
	Longitude   *float64           `json:"longitude"`
	OccursAt    time.Time          `json:"occurs_at" binding:"required"`
	AgeRange    string             `json:"age_range"`
	IsPaid      bool               `json:"is_paid"`
	PriceCents  int64              `json:"price_cents"`
	Capacity    *int               `json:"capacity"`
	Recurrence  *RecurrencePayload `json:"recurrence"`
}

type UpdateEventRequest struct {
	Title    *string    `json:"title"`
	Location *string    `json:"location"`
	AgeRange *string    `json:"age_range"`
	OccursAt *time.Time `json:"occurs_at"`
}

// SetCapacityRequest carries the new bound; null or -1 lifts it.
type SetCapacityRequest struct {
	Capacity *int `json:"capacity"`
}

type CreateInviteRequest struct {
	// TTL in hours; defaults to 48 when omitted.
	TTLHours int `json:"ttl_hours"`
}

type ClaimInviteRequest struct {
	Code string `json:"code" binding:"required"`
}
