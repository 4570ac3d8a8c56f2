package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vals map[string]string) func(string) string {
	return func(k string) string { return vals[k] }
}

func TestDefaults(t *testing.T) {
	cfg, err := FromEnv(env(map[string]string{"DATABASE_URL": "postgres://x"}))
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, "./migrations", cfg.MigrationsPath)
	assert.Equal(t, 10*time.Minute, cfg.ETagTTL)
	assert.Equal(t, 15*time.Minute, cfg.AssetURLTTL)
	assert.Equal(t, "marquee-player", cfg.MQTTClientID)
	assert.False(t, cfg.UseSpaces)
	assert.True(t, cfg.Development())
}

func TestDatabaseURLRequired(t *testing.T) {
	_, err := FromEnv(env(nil))
	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestBadDuration(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"DATABASE_URL": "x", "ETAG_TTL": "soon"}))
	assert.ErrorContains(t, err, "ETAG_TTL")
}

func TestSpacesNeedsBucket(t *testing.T) {
	_, err := FromEnv(env(map[string]string{"DATABASE_URL": "x", "USE_SPACES": "true"}))
	assert.Error(t, err)

	cfg, err := FromEnv(env(map[string]string{
		"DATABASE_URL": "x", "USE_SPACES": "true", "APP_ENV": "production",
		"SPACES_ENDPOINT": "https://nyc3.digitaloceanspaces.com", "SPACES_BUCKET": "media",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.UseSpaces)
	assert.False(t, cfg.Development())
}
