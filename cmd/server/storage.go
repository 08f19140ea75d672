package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Kinfolk-App/kinfolk/internal/storage"
)

// InitStorage selects and returns the configured image storage backend
func InitStorage(env Environment) storage.Storage {
	if env.UseSpaces {
		spacesStorage, err := storage.NewSpacesStorage(
			env.SpacesEndpoint,
			env.SpacesRegion,
			env.SpacesBucket,
			env.SpacesCDNURL,
			env.SpacesAccess,
			env.SpacesSecret,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", env.SpacesCDNURL).Msg("using Spaces image storage")
		return spacesStorage
	}

	log.Info().Msg("using local image storage in ./uploads")
	return storage.NewLocalStorage("./uploads")
}
