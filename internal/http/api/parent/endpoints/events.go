package endpoints

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/http/api"
	"github.com/Kinfolk-App/kinfolk/internal/http/api/parent/packets"
	"github.com/Kinfolk-App/kinfolk/internal/model"
	"github.com/Kinfolk-App/kinfolk/internal/notify"
	"github.com/Kinfolk-App/kinfolk/internal/storage"
)

type EventController struct {
	store     db.Store
	tracker   *engine.CapacityTracker
	publisher *notify.Publisher
	images    storage.Storage
}

func newEventController(store db.Store, tracker *engine.CapacityTracker, publisher *notify.Publisher, images storage.Storage) *EventController {
	return &EventController{store: store, tracker: tracker, publisher: publisher, images: images}
}

// EventModule mounts all authenticated /events endpoints.
func EventModule(store db.Store, tracker *engine.CapacityTracker, publisher *notify.Publisher, images storage.Storage) api.Module {
	ctl := newEventController(store, tracker, publisher, images)
	return api.ModuleFunc(func(c *api.Controller) {
		// discovery + CRUD
		c.GET("/events", ctl.discoverEvents)
		c.POST("/events", ctl.createEvent)
		c.GET("/events/:id", ctl.getEvent)
		c.PUT("/events/:id", ctl.updateEvent)
		c.DELETE("/events/:id", ctl.deleteEvent)

		// participation
		c.POST("/events/:id/join", ctl.joinEvent)
		c.POST("/events/:id/leave", ctl.leaveEvent)
		c.PUT("/events/:id/capacity", ctl.setCapacity)

		// cover image
		c.POST("/events/:id/image", ctl.uploadImage)
	})
}

func (e *EventController) eventResponse(ev model.Event) packets.EventResponse {
	resp := packets.EventResponse{
		ID:          ev.ID,
		Kind:        ev.Kind,
		Title:       ev.Title,
		Description: ev.Description,
		Location:    ev.Location,
		Latitude:    ev.Latitude,
		Longitude:   ev.Longitude,
		OccursAt:    ev.OccursAt.Format(time.RFC3339),
		AgeRange:    ev.AgeRange,
		IsPaid:      ev.IsPaid,
		PriceCents:  ev.PriceCents,
		Capacity:    ev.Capacity,
		SeriesID:    ev.SeriesID,
		ImageURL:    ev.ImageURL,
		CreatedBy:   ev.CreatedBy,
		CreatedAt:   ev.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   ev.UpdatedAt.Format(time.RFC3339),
	}
	if n, err := e.tracker.Occupancy(&ev); err == nil {
		resp.Participants = n
	} else {
		log.Error().Err(err).Str("event_id", ev.ID).Msg("occupancy lookup failed, rendering zero")
	}
	if left, bounded, err := e.tracker.SpotsRemaining(&ev); err == nil && bounded {
		resp.SpotsRemaining = &left
	} else if err != nil {
		log.Error().Err(err).Str("event_id", ev.ID).Msg("spots lookup failed, omitting")
	}
	return resp
}

// capacityStatus maps a tracker verdict onto an HTTP status.
func capacityStatus(ce *engine.CapacityError) int {
	if ce.Kind == engine.CapacityFull {
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}

// GET /api/parent/events
//
// Query params map onto the filter facets: price=free|paid,
// age=<label>, date=today|this_week|this_month, radius=<miles> with
// lat/lon as the reference point. "now" is resolved once here so the
// engine stays deterministic.
func (e *EventController) discoverEvents(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	spec, apiErr := parseFilterSpec(ctx)
	if apiErr != nil {
		return nil, apiErr
	}

	candidates, err := e.store.ListEvents()
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not list events"}
	}

	results := engine.Discover(candidates, spec, time.Now())

	out := make([]packets.EventResponse, 0, len(results))
	for _, ev := range results {
		out = append(out, e.eventResponse(ev))
	}
	return out, nil
}

func parseFilterSpec(ctx *gin.Context) (model.FilterSpec, *api.APIError) {
	spec := model.FilterSpec{
		Price:    model.PriceAny,
		AgeRange: model.AgeAny,
		Date:     model.DateAny,
		Distance: model.DistanceAny,
	}

	switch ctx.Query("price") {
	case "", "any":
	case "free":
		spec.Price = model.PriceFree
	case "paid":
		spec.Price = model.PricePaid
	default:
		return spec, &api.APIError{Code: http.StatusBadRequest, Message: "invalid price facet"}
	}

	if age := ctx.Query("age"); age != "" {
		spec.AgeRange = age
	}

	switch ctx.Query("date") {
	case "", "any":
	case "today":
		spec.Date = model.DateToday
	case "this_week":
		spec.Date = model.DateThisWeek
	case "this_month":
		spec.Date = model.DateThisMonth
	default:
		return spec, &api.APIError{Code: http.StatusBadRequest, Message: "invalid date facet"}
	}

	if radius := ctx.Query("radius"); radius != "" {
		miles, err := strconv.ParseFloat(radius, 64)
		if err != nil {
			return spec, &api.APIError{Code: http.StatusBadRequest, Message: "invalid radius"}
		}
		switch model.DistanceFacet(miles) {
		case model.DistanceHalfMile, model.DistanceTwoMiles, model.DistanceFiveMiles, model.DistanceTenMiles:
			spec.Distance = model.DistanceFacet(miles)
		default:
			return spec, &api.APIError{Code: http.StatusBadRequest, Message: "radius must be one of 0.5, 2, 5, 10"}
		}

		lat, latErr := strconv.ParseFloat(ctx.Query("lat"), 64)
		lon, lonErr := strconv.ParseFloat(ctx.Query("lon"), 64)
		if latErr != nil || lonErr != nil {
			return spec, &api.APIError{Code: http.StatusBadRequest, Message: "radius requires lat and lon"}
		}
		ref := model.Coordinate{Latitude: lat, Longitude: lon}
		if err := engine.ValidateCoordinate(ref); err != nil {
			return spec, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
		spec.ReferencePoint = &ref
	}

	return spec, nil
}

// POST /api/parent/events
func (e *EventController) createEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	var request packets.CreateEventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	kind := request.Kind
	if kind == "" {
		kind = model.KindEvent
	}
	if kind != model.KindEvent && kind != model.KindPlaydate {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "kind must be event or playdate"}
	}
	if request.PriceCents < 0 {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "price_cents must not be negative"}
	}
	if (request.Latitude == nil) != (request.Longitude == nil) {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "latitude and longitude must be set together"}
	}
	if request.Latitude != nil {
		coord := model.Coordinate{Latitude: *request.Latitude, Longitude: *request.Longitude}
		if err := engine.ValidateCoordinate(coord); err != nil {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
		}
	}

	var rule *model.RecurrenceRule
	if request.Recurrence != nil {
		unit := model.RecurrenceUnit(request.Recurrence.Unit)
		if unit != model.UnitDaily && unit != model.UnitWeekly && unit != model.UnitMonthly {
			return nil, &api.APIError{Code: http.StatusBadRequest, Message: "recurrence unit must be daily, weekly or monthly"}
		}
		rule = &model.RecurrenceRule{
			Unit:      unit,
			Frequency: request.Recurrence.Frequency,
			SeriesEnd: request.Recurrence.SeriesEnd,
		}
	}

	ageRange := request.AgeRange
	if ageRange == "" {
		ageRange = "All Ages"
	}

	base := model.Event{
		ID:          uuid.NewString(),
		Kind:        kind,
		Title:       request.Title,
		Description: request.Description,
		Location:    request.Location,
		Latitude:    request.Latitude,
		Longitude:   request.Longitude,
		OccursAt:    request.OccursAt,
		AgeRange:    ageRange,
		IsPaid:      request.IsPaid,
		PriceCents:  request.PriceCents,
		Capacity:    request.Capacity,
		CreatedBy:   user.ID,
	}

	series := engine.CreateSeries(base, rule)

	stored, err := e.store.SaveSeries(series)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not create event"}
	}

	if rule != nil && stored[0].SeriesID != nil {
		e.publisher.Publish(notify.Update{
			EventID:  stored[0].ID,
			Kind:     notify.KindSeriesCreated,
			SeriesID: *stored[0].SeriesID,
		})
	}

	out := make([]packets.EventResponse, 0, len(stored))
	for _, ev := range stored {
		out = append(out, e.eventResponse(ev))
	}
	return packets.SeriesResponse{SeriesID: stored[0].SeriesID, Events: out}, nil
}

// GET /api/parent/events/:id
func (e *EventController) getEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ev, err := e.store.GetEventByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	return e.eventResponse(ev), nil
}

// PUT /api/parent/events/:id
func (e *EventController) updateEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	ev, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	if ev.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the host can edit an event"}
	}

	var request packets.UpdateEventRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	var occursAt *sql.NullTime
	if request.OccursAt != nil {
		occursAt = &sql.NullTime{Time: *request.OccursAt, Valid: true}
	}
	if err := e.store.UpdateEvent(id, request.Title, request.Location, request.AgeRange, occursAt); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not update event"}
	}

	updated, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload event"}
	}
	return e.eventResponse(updated), nil
}

// DELETE /api/parent/events/:id
//
// Deletes one occurrence only; series siblings stay.
func (e *EventController) deleteEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	ev, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	if ev.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the host can delete an event"}
	}

	if err := e.store.DeleteEvent(id); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not delete event"}
	}
	e.tracker.Forget(id)
	e.publisher.Publish(notify.Update{EventID: id, Kind: notify.KindEventDeleted})

	return gin.H{"deleted": id}, nil
}

// POST /api/parent/events/:id/join
func (e *EventController) joinEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ev, err := e.store.GetEventByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}

	if err := e.tracker.Join(&ev, user.ID); err != nil {
		if ce, ok := engine.AsCapacityError(err); ok {
			return nil, &api.APIError{Code: capacityStatus(ce), Message: ce.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not join event"}
	}
	log.Info().Str("event_id", ev.ID).Int("user_id", user.ID).Msg("user joined event")

	resp := e.eventResponse(ev)
	if resp.SpotsRemaining != nil && *resp.SpotsRemaining == 0 {
		e.publisher.Publish(notify.Update{
			EventID:        ev.ID,
			Kind:           notify.KindEventFull,
			SpotsRemaining: resp.SpotsRemaining,
		})
	}
	return resp, nil
}

// POST /api/parent/events/:id/leave
func (e *EventController) leaveEvent(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	ev, err := e.store.GetEventByID(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}

	if err := e.tracker.Leave(&ev, user.ID); err != nil {
		if ce, ok := engine.AsCapacityError(err); ok {
			return nil, &api.APIError{Code: capacityStatus(ce), Message: ce.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not leave event"}
	}
	log.Info().Str("event_id", ev.ID).Int("user_id", user.ID).Msg("user left event")

	resp := e.eventResponse(ev)
	if resp.SpotsRemaining != nil && *resp.SpotsRemaining == 1 {
		e.publisher.Publish(notify.Update{
			EventID:        ev.ID,
			Kind:           notify.KindSpotOpened,
			SpotsRemaining: resp.SpotsRemaining,
		})
	}
	return resp, nil
}

// PUT /api/parent/events/:id/capacity
func (e *EventController) setCapacity(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	ev, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	if ev.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the host can change capacity"}
	}

	var request packets.SetCapacityRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	newCapacity := -1
	if request.Capacity != nil {
		newCapacity = *request.Capacity
	}
	// the row update runs inside the tracker's per-event critical
	// section so no join can slip in between persist and the new bound
	err = e.tracker.SetCapacity(&ev, newCapacity, func() error {
		return e.store.SetEventCapacity(id, request.Capacity)
	})
	if err != nil {
		if ce, ok := engine.AsCapacityError(err); ok {
			return nil, &api.APIError{Code: capacityStatus(ce), Message: ce.Error()}
		}
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not change capacity"}
	}

	updated, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not reload event"}
	}
	return e.eventResponse(updated), nil
}

// POST /api/parent/events/:id/image
func (e *EventController) uploadImage(ctx *gin.Context, user *model.User) (any, *api.APIError) {
	id := ctx.Param("id")
	ev, err := e.store.GetEventByID(id)
	if err != nil {
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "event not found"}
	}
	if ev.CreatedBy != user.ID {
		return nil, &api.APIError{Code: http.StatusForbidden, Message: "only the host can set the cover image"}
	}

	fileHeader, err := ctx.FormFile("image")
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing image file"}
	}

	url, err := e.images.SaveImage(fileHeader, fileHeader.Filename)
	if err != nil {
		log.Error().Err(err).Str("event_id", id).Msg("image upload failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store image"}
	}

	if err := e.store.SetEventImage(id, url); err != nil {
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not store image"}
	}
	return gin.H{"image_url": url}, nil
}
