package endpoints

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nixie-Tech-LLC/marquee/internal/db"
	"github.com/Nixie-Tech-LLC/marquee/internal/http/api"
	"github.com/Nixie-Tech-LLC/marquee/internal/http/api/tv/packets"
	"github.com/Nixie-Tech-LLC/marquee/internal/model"
	"github.com/Nixie-Tech-LLC/marquee/internal/player"
	"github.com/Nixie-Tech-LLC/marquee/internal/presentation"
	"github.com/Nixie-Tech-LLC/marquee/internal/rotation"
)

func str(v string) *string { return &v }

type memStore struct {
	screens map[int]model.Screen
	zones   map[int][]model.Zone
	items   map[int][]model.ContentItem
}

func (m *memStore) GetScreenByID(_ context.Context, id int) (model.Screen, error) {
	s, ok := m.screens[id]
	if !ok {
		return model.Screen{}, fmt.Errorf("screen %d: %w", id, db.ErrNotFound)
	}
	return s, nil
}

func (m *memStore) ListZones(_ context.Context, id int) ([]model.Zone, error) {
	return m.zones[id], nil
}

func (m *memStore) ListContent(_ context.Context, id int) ([]model.ContentItem, error) {
	return m.items[id], nil
}

type memETags struct {
	mu          sync.Mutex
	tags        map[int]string
	invalidated []int
}

func (e *memETags) Get(_ context.Context, id int) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.tags[id]
}

func (e *memETags) Set(_ context.Context, id int, tag string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.tags[id] = tag
}

func (e *memETags) Invalidate(_ context.Context, id int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.tags, id)
	e.invalidated = append(e.invalidated, id)
}

type fixture struct {
	router *gin.Engine
	clock  *rotation.ManualClock
	etags  *memETags
}

func setup(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store := &memStore{
		screens: map[int]model.Screen{1: {ID: 1, Name: "Lobby"}},
		zones:   map[int][]model.Zone{1: {{ID: 10, ScreenID: 1}}},
		items: map[int][]model.ContentItem{1: {{
			ID: 100, ZoneID: 10, ContentType: model.ContentVideo, ImageURL: str("intro.mp4"),
			StyleConfig: types.JSONText(`{"videoRotation":{"rotationItems":[{"url":"b.mp4"}]}}`),
		}}},
	}
	clock := rotation.NewManualClock()
	mgr := player.NewManager(store, player.Options{Clock: clock})
	t.Cleanup(mgr.Close)

	etags := &memETags{tags: map[int]string{}}
	r := gin.New()
	api.MountGroup(r, api.GroupConfig{Prefix: "/api/tv"}, PlayerModule(mgr, etags))
	return &fixture{router: r, clock: clock, etags: etags}
}

func (f *fixture) do(method, path, body string, headers ...string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestPresentationETag(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/tv/screens/1/presentation", "")
	require.Equal(t, http.StatusOK, w.Code)
	etag := w.Header().Get("ETag")
	require.NotEmpty(t, etag)
	assert.Equal(t, etag, f.etags.Get(context.Background(), 1))

	var tree presentation.Tree
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tree))
	assert.Equal(t, "fixed", tree.Position)
	require.Len(t, tree.Zones, 1)

	w = f.do(http.MethodGet, "/api/tv/screens/1/presentation", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusNotModified, w.Code)
	assert.Empty(t, w.Body.String())

	w = f.do(http.MethodGet, "/api/tv/screens/1/presentation?surface=preview", "", "If-None-Match", etag)
	assert.Equal(t, http.StatusOK, w.Code, "surface changes the tree")
}

func TestUnknownScreenIs404(t *testing.T) {
	f := setup(t)
	for _, path := range []string{
		"/api/tv/screens/99/presentation",
		"/api/tv/screens/99/player",
		"/api/tv/screens/99/state",
	} {
		w := f.do(http.MethodGet, path, "")
		assert.Equal(t, http.StatusNotFound, w.Code, path)
		assert.JSONEq(t, `{"error":"screen not found"}`, w.Body.String(), path)
	}
	w := f.do(http.MethodPost, "/api/tv/screens/99/reload", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/tv/screens/abc/presentation", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlaybackEndedAdvances(t *testing.T) {
	f := setup(t)
	require.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/tv/screens/1/presentation", "").Code)

	w := f.do(http.MethodPost, "/api/tv/screens/1/content/100/ended", `{"url":"stale.mp4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accepted":false}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/tv/screens/1/content/100/ended", `{"url":"intro.mp4"}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"accepted":true}`, w.Body.String())
	assert.Contains(t, f.etags.invalidated, 1)

	w = f.do(http.MethodGet, "/api/tv/screens/1/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var state packets.StateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, rotation.PhaseRotation, state.Phases[100].Phase)

	w = f.do(http.MethodPost, "/api/tv/screens/1/content/100/ended", `{bad`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReloadInvalidatesETag(t *testing.T) {
	f := setup(t)
	f.do(http.MethodGet, "/api/tv/screens/1/presentation", "")
	require.NotEmpty(t, f.etags.Get(context.Background(), 1))

	w := f.do(http.MethodPost, "/api/tv/screens/1/reload", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"screen_id":1,"reloaded":true}`, w.Body.String())
	assert.Empty(t, f.etags.Get(context.Background(), 1))
}

func TestHTMLSurfaces(t *testing.T) {
	f := setup(t)

	w := f.do(http.MethodGet, "/api/tv/screens/1/player", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, w.Body.String(), "position:fixed")
	assert.Contains(t, w.Body.String(), "data-advance-on-end")

	w = f.do(http.MethodGet, "/api/tv/screens/1/preview", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "<!DOCTYPE html>")
	assert.Contains(t, w.Body.String(), "position:absolute")
}

func TestPing(t *testing.T) {
	f := setup(t)
	f.clock.Advance(time.Second)
	w := f.do(http.MethodGet, "/api/tv/ping", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
