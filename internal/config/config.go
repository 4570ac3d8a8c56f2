package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	LogLevel       string
	ServerAddress  string
	DatabaseURL    string
	MigrationsPath string

	RedisAddress  string
	RedisUsername string
	RedisPassword string
	ETagTTL       time.Duration

	MQTTBrokerURL string
	MQTTClientID  string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	AssetURLTTL     time.Duration
}

// Development reports whether APP_ENV selects the development profile.
func (c *Config) Development() bool {
	return c.Environment == "" || c.Environment == "development"
}

// Load reads a .env file when present, then environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("[config] could not read .env")
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from a lookup function.
func FromEnv(getenv func(string) string) (*Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			return v
		}
		return def
	}

	cfg := &Config{
		Environment:    get("APP_ENV", "development"),
		LogLevel:       get("LOG_LEVEL", "info"),
		ServerAddress:  get("SERVER_ADDRESS", ":8080"),
		DatabaseURL:    get("DATABASE_URL", ""),
		MigrationsPath: get("MIGRATIONS_PATH", "./migrations"),

		RedisAddress:  get("REDIS_ADDRESS", ""),
		RedisUsername: get("REDIS_USERNAME", ""),
		RedisPassword: get("REDIS_PASSWORD", ""),

		MQTTBrokerURL: get("MQTT_BROKER_URL", ""),
		MQTTClientID:  get("MQTT_CLIENT_ID", "marquee-player"),

		UseSpaces:       get("USE_SPACES", "false") == "true",
		SpacesEndpoint:  get("SPACES_ENDPOINT", ""),
		SpacesRegion:    get("SPACES_REGION", ""),
		SpacesBucket:    get("SPACES_BUCKET", ""),
		SpacesCDNURL:    get("SPACES_CDN_URL", ""),
		SpacesAccessKey: get("SPACES_ACCESS_KEY", ""),
		SpacesSecretKey: get("SPACES_SECRET_KEY", ""),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var err error
	if cfg.ETagTTL, err = time.ParseDuration(get("ETAG_TTL", "10m")); err != nil {
		return nil, fmt.Errorf("ETAG_TTL: %w", err)
	}
	if cfg.AssetURLTTL, err = time.ParseDuration(get("ASSET_URL_TTL", "15m")); err != nil {
		return nil, fmt.Errorf("ASSET_URL_TTL: %w", err)
	}

	if cfg.UseSpaces && (cfg.SpacesBucket == "" || cfg.SpacesEndpoint == "") {
		return nil, fmt.Errorf("USE_SPACES requires SPACES_ENDPOINT and SPACES_BUCKET")
	}
	return cfg, nil
}
