package storage

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalAssets(t *testing.T) {
	l := NewLocalAssets("")
	assert.Equal(t, "/uploads/menu.jpg", l.Resolve("menu.jpg"))
	assert.Equal(t, "/uploads/menu.jpg", l.Resolve("./uploads/menu.jpg"))
	assert.Equal(t, "/uploads/promo/clip.mp4", l.Resolve("/uploads/promo/clip.mp4"))
	assert.Equal(t, "/uploads/etc/passwd", l.Resolve("../../etc/passwd"))
	assert.Equal(t, "https://cdn.example.com/a.png", l.Resolve("https://cdn.example.com/a.png"))
	assert.Equal(t, "data:image/png;base64,AAAA", l.Resolve("data:image/png;base64,AAAA"))
	assert.Equal(t, "", l.Resolve("  "))
}

func TestSpacesAssetsCDN(t *testing.T) {
	s, err := NewSpacesAssets("https://nyc3.digitaloceanspaces.com", "nyc3", "media", "https://media.cdn.example.com/", "k", "s", time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "https://media.cdn.example.com/uploads/menu.jpg", s.Resolve("menu.jpg"))
	assert.Equal(t, "http://other.example.com/x.jpg", s.Resolve("http://other.example.com/x.jpg"))
}

func TestSpacesAssetsPresign(t *testing.T) {
	s, err := NewSpacesAssets("https://nyc3.digitaloceanspaces.com", "nyc3", "media", "", "key", "secret", 10*time.Minute)
	require.NoError(t, err)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	first := s.Resolve("uploads/menu.jpg")
	assert.True(t, strings.Contains(first, "uploads/menu.jpg"), first)
	assert.Contains(t, first, "X-Amz-Signature=")

	now = now.Add(4 * time.Minute)
	assert.Equal(t, first, s.Resolve("menu.jpg"), "signature is reused while fresh")

	now = now.Add(2 * time.Minute)
	assert.NotEmpty(t, s.Resolve("menu.jpg"))
	assert.Len(t, s.cache, 1)
}
