package packets

type ProfileResponse struct {
	ID        int     `json:"id"`
	Email     string  `json:"email"`
	Name      *string `json:"name"`
	CreatedAt string  `json:"created_at"`
}

// EventResponse is one occurrence as the client renders it.
// SpotsRemaining is derived on every read and omitted for unlimited
// events.
type EventResponse struct {
	ID             string   `json:"id"`
	Kind           string   `json:"kind"`
	Title          string   `json:"title"`
	Description    *string  `json:"description"`
	Location       string   `json:"location"`
	Latitude       *float64 `json:"latitude"`
	Longitude      *float64 `json:"longitude"`
	OccursAt       string   `json:"occurs_at"`
	AgeRange       string   `json:"age_range"`
	IsPaid         bool     `json:"is_paid"`
	PriceCents     int64    `json:"price_cents"`
	Capacity       *int     `json:"capacity"`
	SpotsRemaining *int     `json:"spots_remaining"`
	Participants   int      `json:"participants"`
	SeriesID       *string  `json:"series_id"`
	ImageURL       *string  `json:"image_url"`
	CreatedBy      int      `json:"created_by"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

type SeriesResponse struct {
	SeriesID *string         `json:"series_id"`
	Events   []EventResponse `json:"events"`
}

type InviteResponse struct {
	Code      string `json:"code"`
	EventID   string `json:"event_id"`
	ExpiresAt string `json:"expires_at"`
}
