package main

import (
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/db"
	"github.com/Kinfolk-App/kinfolk/internal/engine"
	"github.com/Kinfolk-App/kinfolk/internal/jobs"
	"github.com/Kinfolk-App/kinfolk/internal/notify"
	"github.com/Kinfolk-App/kinfolk/internal/redis"
)

func main() {
	// .env is optional; real deployments set vars directly
	_ = godotenv.Load()

	env := LoadEnvironment()

	// initialize PostgreSQL
	if err := db.Init(env.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("db init")
	}

	// run pending migrations
	if err := db.RunMigrations(env.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("db migrate")
	}

	redis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)

	publisher, err := notify.Connect(env.MQTTBrokerURL, "kinfolk-server")
	if err != nil {
		log.Fatal().Err(err).Msg("mqtt connect")
	}
	defer publisher.Close()

	store := db.NewStore(db.DB)
	tracker := engine.NewCapacityTracker(store)
	images := InitStorage(env)

	cronJobs := jobs.Start(store, tracker)
	defer cronJobs.Stop()

	r := gin.Default()
	RegisterRoutes(r, env, store, tracker, publisher, images)

	log.Info().Str("address", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
