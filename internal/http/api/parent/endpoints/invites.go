package endpoints

import (
	"context"
	"math/rand"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/http/api"
	"github.com/Kinfolk-App/kinfolk/internal/http/api/parent/packets"
	"github.com/Kinfolk-App/kinfolk/internal/model"
	redisclient "github.com/Kinfolk-App/kinfolk/internal/redis"
)

const defaultInviteTTL = 48 * time.Hour

// CodeStore holds invite codes. Take must consume the code in the
// same step as the lookup so two racing claims can never both see it.
type CodeStore interface {
	Put(ctx context.Context, code, eventID string, ttl time.Duration) error
	Take(ctx context.Context, code string) (string, bool, error)
}

// RedisCodes keeps invite codes as TTL'd Redis keys; Take is a
// server-side GETDEL.
type RedisCodes struct{}

func (RedisCodes) Put(ctx context.Context, code, eventID string, ttl time.Duration) error {
	return redisclient.Set(ctx, "invite:"+code, eventID, ttl)
}

func (RedisCodes) Take(ctx context.Context, code string) (string, bool, error) {
	return redisclient.GetDel(ctx, "invite:"+code)
}

type InviteController struct {
	store   db.Store
	tracker *engine.CapacityTracker
	codes   CodeStore
}

// InviteModule mounts the invite-code endpoints. Claiming goes
// through the capacity tracker, so an invite can never oversubscribe
// an event.
func InviteModule(store db.Store, tracker *engine.CapacityTracker, codes CodeStore) api.Module {
	ctl := &InviteController{store: store, tracker: tracker, codes: codes}
	return api.ModuleFunc(func(c *api.Controller) {
		c.POST("/events/:id/invites", ctl.createInvite)
		c.POST("/invites/claim", ctl.claimInvite)
	})
}

// POST /api/parent/events/:id/invites
func (i *InviteController) createInvite(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	ev, err := i.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	if ev.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the host can invite"}
	}

	var request packets.CreateInviteRequest
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&request); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}
	ttl := defaultInviteTTL
	if request.TTLHours > 0 {
		ttl = time.Duration(request.TTLHours) * time.Hour
	}

	code := generateInviteCode()
	if err := i.codes.Put(ctx, code, ev.ID, ttl); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create invite"}
	}
	log.Info().Str("event_id", ev.ID).Str("code", code).Msg("invite created")

	return packets.InviteResponse{
		Code:      code,
		EventID:   ev.ID,
		ExpiresAt: time.Now().Add(ttl).Format(time.RFC3339),
	}, nil
}

// POST /api/parent/invites/claim
//
// The code is consumed atomically before the join, so it is
// single-use even when the join is then refused.
func (i *InviteController) claimInvite(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.ClaimInviteRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	eventID, found, err := i.codes.Take(ctx, request.Code)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not look up invite"}
	}
	if !found {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "invite expired or unknown"}
	}

	ev, err := i.store.GetEventByID(eventID)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event no longer exists"}
	}

	if err := i.tracker.Join(&ev, user.ID); err != nil {
		if ce, ok := engine.AsCapacityError(err); ok {
			return nil, &api.APIError{Code: capacityStatus(ce), Message: ce.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not join event"}
	}
	log.Info().Str("event_id", ev.ID).Int("user_id", user.ID).Msg("invite claimed")

	return gin.H{"event_id": ev.ID}, nil
}

func generateInviteCode() string {
	const charset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	b := make([]byte, 6)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}
