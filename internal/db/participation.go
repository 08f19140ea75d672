package db

import (
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/model"
)

// AddParticipant records a membership row. The capacity check happens
// in the engine's tracker before this is called; the unique
// constraint is a second line of defense against double joins.
func AddParticipant(eventID string, userID int) error {
	_, err := DB.Exec(`
	INSERT INTO event_participants (event_id, user_id, joined_at)
	VALUES ($1, $2, now());`, eventID, userID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Int("user_id", userID).Msg("AddParticipant failed")
	}
	return err
}

func RemoveParticipant(eventID string, userID int) error {
	_, err := DB.Exec(`
	DELETE FROM event_participants
	WHERE event_id = $1 AND user_id = $2;`, eventID, userID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Int("user_id", userID).Msg("RemoveParticipant failed")
	}
	return err
}

func ListParticipants(eventID string) ([]model.Participant, error) {
	var out []model.Participant
	q := `
	SELECT event_id, user_id, joined_at
	  FROM event_participants
	 WHERE event_id = $1
	 ORDER BY joined_at;`
	if err := DB.Select(&out, q, eventID); err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("ListParticipants failed")
		return nil, err
	}
	return out, nil
}

func CountParticipants(eventID string) (int, error) {
	var n int
	err := DB.Get(&n, `SELECT count(*) FROM event_participants WHERE event_id = $1;`, eventID)
	if err != nil {
		log.Error().Err(err).Str("event_id", eventID).Msg("CountParticipants failed")
		return 0, err
	}
	return n, nil
}
