package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/redis"
)

// retention window for past occurrences before they are purged.
const retainPast = 30 * 24 * time.Hour

// purgeStore is the slice of db.Store the purge needs.
type purgeStore interface {
	DeleteEventsBefore(cutoff time.Time) ([]string, error)
}

// Start schedules the maintenance jobs and returns the running cron
// so main can stop it on shutdown.
func Start(store db.Store, tracker *engine.CapacityTracker) *cron.Cron {
	c := cron.New()

	job := func() {
		if deleted := purgeStaleEvents(store, tracker); len(deleted) > 0 {
			sweepInviteCodes(deleted)
		}
	}
	if _, err := c.AddFunc("@hourly", job); err != nil {
		log.Error().Err(err).Msg("failed to schedule stale event purge")
	}

	c.Start()
	log.Info().Msg("maintenance jobs scheduled")
	return c
}

// purgeStaleEvents deletes occurrences past the retention window and
// drops their in-memory capacity entries. Returns the deleted ids.
func purgeStaleEvents(store purgeStore, tracker *engine.CapacityTracker) []string {
	cutoff := time.Now().Add(-retainPast)

	deleted, err := store.DeleteEventsBefore(cutoff)
	if err != nil {
		log.Error().Err(err).Msg("stale event purge failed")
		return nil
	}
	if len(deleted) == 0 {
		return nil
	}
	for _, id := range deleted {
		tracker.Forget(id)
	}
	log.Info().Int("count", len(deleted)).Time("cutoff", cutoff).Msg("purged past occurrences")
	return deleted
}

// sweepInviteCodes drops invite codes still pointing at purged
// events. Invite keys carry a TTL of their own; this sweep just keeps
// codes from outliving their event by up to that TTL.
func sweepInviteCodes(deleted []string) {
	gone := make(map[string]bool, len(deleted))
	for _, id := range deleted {
		gone[id] = true
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	keys, err := redis.ScanKeys(ctx, "invite:*")
	if err != nil {
		return
	}
	var stale []string
	for _, key := range keys {
		eventID, ok, err := redis.Get(ctx, key)
		if err != nil || !ok {
			continue
		}
		if gone[eventID] {
			stale = append(stale, key)
		}
	}
	if len(stale) > 0 {
		redis.Delete(ctx, stale...)
		log.Info().Int("count", len(stale)).Msg("dropped invite codes for purged events")
	}
}
