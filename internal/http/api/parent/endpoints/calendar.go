package endpoints

import (
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/http/api"
	"github.com/Kinfolk-App/kinfolk/internal/http/middleware"
)

// assumed occurrence length for calendar blocks; the app does not
// track event durations.
const calendarSlot = 2 * time.Hour

// CalendarModule mounts the ICS feed of the caller's joined
// occurrences. Registered on the raw group because the response is
// text/calendar, not JSON.
func CalendarModule(store db.Store) api.Module {
	return api.ModuleFunc(func(c *api.Controller) {
		c.Group.GET("/calendar.ics", func(ctx *gin.Context) {
			user, ok := middleware.GetCurrentUser(ctx)
			if !ok {
				ctx.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
				return
			}

			events, err := store.ListEventsJoinedBy(user.ID)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "could not list joined events"})
				return
			}

			cal := ics.NewCalendar()
			cal.SetMethod(ics.MethodPublish)
			cal.SetProductId("-//Kinfolk//Calendar//EN")

			for _, ev := range events {
				entry := cal.AddEvent(ev.ID)
				entry.SetDtStampTime(ev.UpdatedAt)
				entry.SetStartAt(ev.OccursAt)
				entry.SetEndAt(ev.OccursAt.Add(calendarSlot))
				entry.SetSummary(ev.Title)
				if ev.Location != "" {
					entry.SetLocation(ev.Location)
				}
				if ev.Description != nil {
					entry.SetDescription(*ev.Description)
				}
			}

			log.Debug().Int("user_id", user.ID).Int("events", len(events)).Msg("calendar feed rendered")
			ctx.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.Serialize()))
		})
	})
}
