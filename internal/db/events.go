package db

import (
	"database/sql"
	"errors"
	"time"

	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

const eventColumns = `
	id, kind, title, description, location, latitude, longitude,
	occurs_at, age_range, is_paid, price_cents, capacity, series_id,
	image_url, created_by, created_at, updated_at`

// CreateEvent inserts a single occurrence and returns the stored row.
func CreateEvent(ev model.Event) (model.Event, error) {
	var out model.Event
	q := `
	INSERT INTO events
	  (id, kind, title, description, location, latitude, longitude,
	   occurs_at, age_range, is_paid, price_cents, capacity, series_id,
	   created_by, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
	RETURNING ` + eventColumns + `;`
	err := DB.Get(&out, q,
		ev.ID, ev.Kind, ev.Title, ev.Description, ev.Location,
		ev.Latitude, ev.Longitude, ev.OccursAt, ev.AgeRange,
		ev.IsPaid, ev.PriceCents, ev.Capacity, ev.SeriesID, ev.CreatedBy)
	if err != nil {
		log.Error().Err(err).Str("event_id", ev.ID).Msg("CreateEvent failed")
		return model.Event{}, err
	}
	return out, nil
}

// SaveSeries persists a whole series in one transaction so a
// recurring creation is never half stored.
func SaveSeries(events []model.Event) ([]model.Event, error) {
	tx, err := DB.Beginx()
	if err != nil {
		log.Error().Err(err).Msg("SaveSeries begin failed")
		return nil, err
	}

	q := `
	INSERT INTO events
	  (id, kind, title, description, location, latitude, longitude,
	   occurs_at, age_range, is_paid, price_cents, capacity, series_id,
	   created_by, created_at, updated_at)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,now(),now())
	RETURNING ` + eventColumns + `;`

	out := make([]model.Event, 0, len(events))
	for _, ev := range events {
		var stored model.Event
		if err := tx.Get(&stored, q,
			ev.ID, ev.Kind, ev.Title, ev.Description, ev.Location,
			ev.Latitude, ev.Longitude, ev.OccursAt, ev.AgeRange,
			ev.IsPaid, ev.PriceCents, ev.Capacity, ev.SeriesID, ev.CreatedBy); err != nil {
			tx.Rollback()
			log.Error().Err(err).Str("event_id", ev.ID).Msg("SaveSeries insert failed")
			return nil, err
		}
		out = append(out, stored)
	}

	if err := tx.Commit(); err != nil {
		log.Error().Err(err).Msg("SaveSeries commit failed")
		return nil, err
	}
	return out, nil
}

func GetEventByID(id string) (model.Event, error) {
	var ev model.Event
	err := DB.Get(&ev, `SELECT `+eventColumns+` FROM events WHERE id = $1;`, id)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Error().Err(err).Str("event_id", id).Msg("GetEventByID failed")
	}
	return ev, err
}

// ListEvents returns the candidate snapshot discovery filters over.
func ListEvents() ([]model.Event, error) {
	var out []model.Event
	err := DB.Select(&out, `SELECT `+eventColumns+` FROM events ORDER BY occurs_at, id;`)
	if err != nil {
		log.Error().Err(err).Msg("ListEvents failed")
		return nil, err
	}
	return out, nil
}

// ListEventsJoinedBy returns the occurrences a user participates in,
// soonest first. Feeds the calendar export.
func ListEventsJoinedBy(userID int) ([]model.Event, error) {
	var out []model.Event
	q := `
	SELECT ` + eventColumns + `
	  FROM events e
	  JOIN event_participants p ON p.event_id = e.id
	 WHERE p.user_id = $1
	 ORDER BY occurs_at, id;`
	if err := DB.Select(&out, q, userID); err != nil {
		log.Error().Err(err).Int("user_id", userID).Msg("ListEventsJoinedBy failed")
		return nil, err
	}
	return out, nil
}

func UpdateEvent(id string, title, location, ageRange *string, occursAt *sql.NullTime) error {
	_, err := DB.Exec(`
		UPDATE events
		SET title = COALESCE($2, title),
		location = COALESCE($3, location),
		age_range = COALESCE($4, age_range),
		occurs_at = COALESCE($5, occurs_at),
		updated_at = now()
		WHERE id = $1
		`, id, title, location, ageRange, occursAt)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("UpdateEvent failed")
	}
	return err
}

// SetEventCapacity persists a validated capacity change. nil means
// unlimited.
func SetEventCapacity(id string, capacity *int) error {
	_, err := DB.Exec(`
		UPDATE events
		SET capacity = $2,
		updated_at = now()
		WHERE id = $1
		`, id, capacity)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("SetEventCapacity failed")
	}
	return err
}

func SetEventImage(id string, imageURL string) error {
	_, err := DB.Exec(`
		UPDATE events
		SET image_url = $2,
		updated_at = now()
		WHERE id = $1
		`, id, imageURL)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("SetEventImage failed")
	}
	return err
}

// DeleteEvent removes one occurrence. Series siblings are untouched:
// the series id is a weak grouping, never ownership.
func DeleteEvent(id string) error {
	_, err := DB.Exec(`DELETE FROM events WHERE id = $1;`, id)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("DeleteEvent failed")
	}
	return err
}

// DeleteEventsBefore purges occurrences older than cutoff and
// returns the ids it removed. Participant rows go with them via the
// FK cascade.
func DeleteEventsBefore(cutoff time.Time) ([]string, error) {
	var ids []string
	err := DB.Select(&ids, `
	DELETE FROM events
	 WHERE occurs_at < $1
	 RETURNING id;`, cutoff)
	if err != nil {
		log.Error().Err(err).Time("cutoff", cutoff).Msg("DeleteEventsBefore failed")
		return nil, err
	}
	return ids, nil
}
