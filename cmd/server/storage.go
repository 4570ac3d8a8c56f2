package main

import (
	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/marquee/internal/config"
	"github.com/Nixie-Tech-LLC/marquee/internal/storage"
)

// InitStorage selects the configured asset backend
func InitStorage(cfg *config.Config) storage.AssetResolver {
	if cfg.UseSpaces {
		spaces, err := storage.NewSpacesAssets(
			cfg.SpacesEndpoint,
			cfg.SpacesRegion,
			cfg.SpacesBucket,
			cfg.SpacesCDNURL,
			cfg.SpacesAccessKey,
			cfg.SpacesSecretKey,
			cfg.AssetURLTTL,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize Spaces storage")
		}
		log.Info().Str("cdn", cfg.SpacesCDNURL).Str("bucket", cfg.SpacesBucket).Msg("using DigitalOcean Spaces assets")
		return spaces
	}

	log.Info().Msg("using local assets in ./uploads")
	return storage.NewLocalAssets("/uploads")
}
