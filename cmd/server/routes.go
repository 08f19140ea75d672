package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/http/api"
	parentapi "github.com/Kinfolk-App/kinfolk/internal/http/api/parent/endpoints"
	"github.com/Kinfolk-App/kinfolk/internal/notify"
	"github.com/Kinfolk-App/kinfolk/internal/storage"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	store db.Store,
	tracker *engine.CapacityTracker,
	publisher *notify.Publisher,
	images storage.Storage,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"PATCH",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		ExposeHeaders: []string{
			"Content-Length",
		},
		AllowCredentials: false,
	}))

	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/parent",
		Auth:   false,
	},
		parentapi.AuthPublicModule(env.SecretKey, store),
	)

	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/parent",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     store,
	},
		parentapi.EventModule(store, tracker, publisher, images),
		parentapi.InviteModule(store, tracker, parentapi.RedisCodes{}),
		parentapi.CalendarModule(store),
		// session endpoints that require auth
		parentapi.AuthSessionModule(env.SecretKey, store),
	)

	// Cover images served straight from disk in local mode.
	if !env.UseSpaces {
		r.Static("/uploads", "./uploads")
	}
}
